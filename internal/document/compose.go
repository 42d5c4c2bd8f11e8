package document

import (
	"fmt"
	"strings"

	"github.com/lifebalance/intake-api/internal/measure"
	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/pkg/phone"
)

// Placeholder is printed for an empty field or an unanswered item.
const Placeholder = "—"

const (
	markerWidth = 8
	answerWidth = 46
)

var fontInstructions = Font{"Helvetica", "I", 8}

type composer struct {
	m      Measurer
	g      Geometry
	region string
	blocks []Block
}

type field struct {
	label string
	value string
}

// Compose turns rec into blocks in the fixed section order: patient
// information, guardian (only when named), emergency contact beside care
// providers, insurance and payment, medical history, then one block per
// instrument. Every score comes from the measure package.
func Compose(rec model.IntakeRecord, m Measurer, g Geometry, region string) []Block {
	c := &composer{m: m, g: g, region: region}
	c.patient(rec)
	if rec.HasGuardian() {
		c.guardian(rec)
	}
	c.contacts(rec)
	c.insurance(rec)
	c.history(rec)
	scores := rec.Scores()
	c.phq9(rec, scores.PHQ9)
	c.gad7(rec, scores.GAD7)
	c.mdq(rec, scores.MDQ)
	c.pclc(rec, scores.PCLC)
	c.asrs(rec, scores.ASRS)
	return c.blocks
}

func (c *composer) add(b ...Block) {
	c.blocks = append(c.blocks, b...)
}

func (c *composer) phone(raw string) string {
	return phone.Format(raw, c.region)
}

func (c *composer) section(title, note string) {
	c.add(&SectionHeader{Title: title, Note: note})
}

func (c *composer) wrap(f Font, s string, width float64) []string {
	return WrapText(c.m, f, s, width)
}

func (c *composer) cellLines(value string, width float64) []string {
	lines := c.wrap(fontValue, value, width)
	if len(lines) == 0 {
		return []string{Placeholder}
	}
	return clampLines(lines, maxCellLines)
}

func (c *composer) row(shade bool, fields ...field) {
	w := c.g.ContentWidth() / float64(len(fields))
	cells := make([]Cell, 0, len(fields))
	for i, f := range fields {
		cells = append(cells, Cell{
			Label: f.label,
			Lines: c.cellLines(f.value, w-cellGutter),
			X:     c.g.Margin + float64(i)*w,
			Width: w - cellGutter,
		})
	}
	c.add(&FieldRow{Cells: cells, Shade: shade})
}

func (c *composer) paragraph(label, text, empty string) {
	lines := c.wrap(fontBody, text, c.g.ContentWidth()-2*cellGutter)
	if len(lines) == 0 {
		lines = []string{empty}
	}
	c.add(&Paragraph{Label: label, Lines: lines})
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func withContact(number string, mayContact bool) string {
	if number == "" {
		return ""
	}
	return number + "  ·  OK to contact: " + yesNo(mayContact)
}

func (c *composer) patient(rec model.IntakeRecord) {
	c.section("PATIENT INFORMATION", "")
	c.row(true,
		field{"Full Name", rec.PatientName},
		field{"Date of Birth", rec.DOB},
		field{"Marital Status", string(rec.MaritalStatus)},
	)
	c.row(false, field{"Address", rec.PatientAddress()})
	c.row(true,
		field{"Primary Phone", withContact(c.phone(rec.PrimaryPhone), rec.PrimaryPhoneMayContact)},
		field{"Secondary Phone", withContact(c.phone(rec.SecondaryPhone), rec.SecondaryPhoneMayContact)},
	)
	c.row(false, field{"Email", rec.Email})
	c.add(&Spacer{H: 4})
}

func (c *composer) guardian(rec model.IntakeRecord) {
	c.section("PARENT / GUARDIAN", "Patient is a minor")
	c.row(true,
		field{"Name", rec.GuardianName},
		field{"Date of Birth", rec.GuardianDOB},
		field{"Phone", withContact(c.phone(rec.GuardianPhone), rec.GuardianPhoneMayContact)},
	)
	c.row(false, field{"Address", rec.GuardianFullAddress()})
	c.add(&Spacer{H: 4})
}

func (c *composer) column(title string, x, width float64, fields ...field) Column {
	col := Column{Title: title}
	for _, f := range fields {
		col.Cells = append(col.Cells, Cell{
			Label: f.label,
			Lines: c.cellLines(f.value, width),
			X:     x,
			Width: width,
		})
	}
	return col
}

func (c *composer) contacts(rec model.IntakeRecord) {
	c.section("EMERGENCY CONTACT & CARE COORDINATION", "")
	half := c.g.ContentWidth() / 2
	w := half - 2*cellGutter
	left := c.column("Emergency Contact", c.g.Margin+cellGutter, w,
		field{"Name", rec.EmergencyName},
		field{"Relationship", rec.EmergencyRelationship},
		field{"Address", rec.EmergencyFullAddress()},
		field{"Phone", withContact(c.phone(rec.EmergencyPhone), rec.EmergencyPhoneMayContact)},
		field{"Release Consent Signature", rec.EmergencyConsentSignature},
	)
	right := c.column("Care Providers", c.g.Margin+half+cellGutter, w,
		field{"Primary Care Physician", rec.PCPName},
		field{"PCP Phone", c.phone(rec.PCPPhone)},
		field{"Permission to Contact PCP", yesNo(rec.PCPPermissionToContact)},
		field{"Pharmacy", rec.PharmacyName},
		field{"Pharmacy City / State", rec.PharmacyCityState},
	)
	c.add(&Columns{Left: left, Right: right}, &Spacer{H: 4})
}

func (c *composer) insurance(rec model.IntakeRecord) {
	policy := "Not acknowledged"
	if rec.CancellationPolicyAcknowledged {
		policy = "Acknowledged"
	}
	c.section("INSURANCE & PAYMENT", "")
	c.row(true,
		field{"Insurance Company", rec.InsuranceCompany},
		field{"Member ID", rec.MemberID},
		field{"Group Number", rec.GroupNumber},
	)
	c.row(false,
		field{"Policyholder", rec.PolicyholderName},
		field{"Policyholder DOB", rec.PolicyholderDOB},
		field{"Relationship to Patient", rec.PolicyholderRelationship},
	)
	c.row(true,
		field{"Policyholder Employer", rec.PolicyholderEmployer},
		field{"Payment Method", rec.PaymentMethod.DisplayName()},
		field{"Cancellation Policy", policy},
	)
	c.add(&Spacer{H: 4})
}

func withOther(tags []string, other string) string {
	out := strings.Join(tags, ", ")
	if other = strings.TrimSpace(other); other != "" {
		if out != "" {
			out += "; "
		}
		out += "Other: " + other
	}
	return out
}

func history(had bool, detail string) string {
	if !had {
		return "No"
	}
	if detail = strings.TrimSpace(detail); detail != "" {
		return "Yes. " + detail
	}
	return "Yes"
}

func (c *composer) history(rec model.IntakeRecord) {
	c.section("MEDICAL HISTORY", "")
	c.paragraph("Reason for Visit", rec.ReasonForVisit, "Not provided")
	c.paragraph("Current Symptoms", strings.Join(rec.CurrentSymptoms, ", "), "None selected")

	if rec.SuicidalThoughts {
		text := "Patient reports current thoughts of suicide or self-harm."
		if d := strings.TrimSpace(rec.SuicidalThoughtsDetail); d != "" {
			text += " " + d
		}
		c.add(&Alert{
			Title: "SAFETY ALERT: THOUGHTS OF SUICIDE OR SELF-HARM",
			Lines: c.wrap(fontBody, text, c.g.ContentWidth()-4*cellGutter),
		})
	} else {
		c.row(false, field{"Thoughts of Suicide or Self-Harm", "No"})
	}

	c.medicationTable("Current Medications",
		[]string{"Medication", "How Often", "Date Started"},
		[]float64{0.45, 0.30, 0.25},
		currentRows(rec.CurrentMedications))

	c.paragraph("Physical Illnesses", withOther(rec.PhysicalIllnesses, rec.PhysicalIllnessOther), "None selected")
	c.paragraph("Outpatient Treatment History", history(rec.OutpatientHistory, rec.OutpatientHistoryDetail), "No")
	c.paragraph("Inpatient Treatment History", history(rec.InpatientHistory, rec.InpatientHistoryDetail), "No")

	c.medicationTable("Past Medications",
		[]string{"Medication", "How Often", "Date Started", "Outcome"},
		[]float64{0.34, 0.22, 0.20, 0.24},
		pastRows(rec.PastMedications))

	c.paragraph("Family History", withOther(rec.FamilyHistory, rec.FamilyHistoryOther), "None selected")
	c.paragraph("Additional Information", rec.AdditionalInfo, "None provided")
	c.add(&Spacer{H: 4})
}

func currentRows(meds []model.Medication) [][]string {
	var rows [][]string
	for _, m := range meds {
		if m.Empty() {
			continue
		}
		rows = append(rows, []string{m.Medication, m.HowOften, m.DateStarted})
	}
	return rows
}

func pastRows(meds []model.PastMedication) [][]string {
	var rows [][]string
	for _, m := range meds {
		if m.Empty() {
			continue
		}
		rows = append(rows, []string{m.Medication, m.HowOften, m.DateStarted, m.Outcome})
	}
	return rows
}

func (c *composer) medicationTable(title string, headers []string, fractions []float64, rows [][]string) {
	widths := make([]float64, len(fractions))
	for i, f := range fractions {
		widths[i] = c.g.ContentWidth() * f
	}
	cells := func(values []string, f Font) [][]string {
		out := make([][]string, len(values))
		for i, v := range values {
			lines := WrapText(c.m, f, v, widths[i]-cellGutter)
			if len(lines) == 0 {
				lines = []string{Placeholder}
			}
			out[i] = clampLines(lines, maxCellLines)
		}
		return out
	}

	if len(rows) == 0 {
		c.add(&Paragraph{Label: title, Lines: []string{"None listed"}})
		return
	}
	c.add(&Caption{Title: title})
	upper := make([]string, len(headers))
	for i, h := range headers {
		upper[i] = strings.ToUpper(h)
	}
	c.add(&TableRow{Cells: cells(upper, fontTableHdr), Widths: widths, Header: true})
	for i, r := range rows {
		c.add(&TableRow{Cells: cells(r, fontTable), Widths: widths, Shade: i%2 == 1})
	}
}

func (c *composer) instrumentHeader(def measure.Definition, title, note string) {
	c.section(title, note)
	if def.Instructions != "" {
		c.add(&Paragraph{
			Lines: c.wrap(fontInstructions, def.Instructions, c.g.ContentWidth()-2*cellGutter),
			Font:  fontInstructions,
		})
	}
}

func (c *composer) questionWidth() float64 {
	return c.g.ContentWidth() - markerWidth - answerWidth - 2*cellGutter
}

func (c *composer) question(marker, text, answer string, answered bool, shade bool) {
	if !answered {
		answer = Placeholder
	}
	c.add(&QuestionRow{
		Marker:   marker,
		Lines:    c.wrap(fontQuestion, text, c.questionWidth()),
		Answer:   c.wrap(fontAnswer, answer, answerWidth),
		Answered: answered,
		Shade:    shade,
	})
}

func (c *composer) numericItems(def measure.Definition, answers []int, from, to int) {
	for i := from; i < to; i++ {
		v := answers[i]
		label := ""
		if def.Valid(v) {
			label = fmt.Sprintf("%d  ·  %s", v, def.Label(v))
		}
		c.question(fmt.Sprintf("%d.", i+1), def.Questions[i], label, def.Valid(v), (i-from)%2 == 1)
	}
}

func (c *composer) followUps(def measure.Definition, rec model.IntakeRecord) {
	for _, f := range def.FollowUps {
		a := rec.FollowUpAnswer(f.Key)
		c.question("•", f.Question, a, a != "", false)
	}
}

func (c *composer) summary(label, detail string) {
	c.add(&SummaryLine{Label: label, Detail: detail}, &Spacer{H: 5})
}

func instrumentTitle(def measure.Definition) string {
	return strings.ToUpper(def.Code + "  ·  " + def.Title)
}

func (c *composer) phq9(rec model.IntakeRecord, s measure.Score) {
	def := measure.MustLookup(measure.PHQ9)
	c.instrumentHeader(def, instrumentTitle(def), def.Subtitle)
	c.numericItems(def, rec.PHQ9[:], 0, len(def.Questions))
	c.followUps(def, rec)
	c.summary(fmt.Sprintf("Total Score: %d", s.Total), s.Severity)
}

func (c *composer) gad7(rec model.IntakeRecord, s measure.Score) {
	def := measure.MustLookup(measure.GAD7)
	c.instrumentHeader(def, instrumentTitle(def), def.Subtitle)
	c.numericItems(def, rec.GAD7[:], 0, len(def.Questions))
	c.summary(fmt.Sprintf("Total Score: %d", s.Total), s.Severity)
}

func (c *composer) mdq(rec model.IntakeRecord, s measure.MDQScore) {
	def := measure.MustLookup(measure.MDQ)
	c.instrumentHeader(def, instrumentTitle(def), def.Subtitle)
	for i, q := range def.Questions {
		c.question(fmt.Sprintf("%d.", i+1), q, yesNo(rec.MDQItems[i]), true, i%2 == 1)
	}
	c.followUps(def, rec)
	screen := "Negative screen"
	if s.PositiveScreen {
		screen = "Positive screen"
	}
	c.summary(fmt.Sprintf("Yes Count: %d/%d", s.YesCount, s.Items), screen)
}

func (c *composer) pclc(rec model.IntakeRecord, s measure.Score) {
	def := measure.MustLookup(measure.PCLC)
	c.instrumentHeader(def, instrumentTitle(def), def.Subtitle)
	c.numericItems(def, rec.PCLC[:], 0, len(def.Questions))
	c.summary(fmt.Sprintf("Total Score: %d", s.Total), s.Severity)
}

func (c *composer) asrs(rec model.IntakeRecord, s measure.ASRSScore) {
	def := measure.MustLookup(measure.ASRS)
	title := strings.ToUpper(def.Code + "  ·  " + def.Title)

	c.instrumentHeader(def, title+"  ·  PART A", "Screener")
	c.numericItems(def, rec.ASRS[:], 0, measure.ASRSPartAItems)
	c.summary(fmt.Sprintf("Part A Flags: %d/%d", s.PartAFlags, measure.ASRSPartAItems),
		"Items answered Sometimes or more often")

	c.section(title+"  ·  PART B", "")
	c.numericItems(def, rec.ASRS[:], measure.ASRSPartAItems, measure.ASRSItems)
	partB := measure.AnsweredCount(rec.ASRS[measure.ASRSPartAItems:], measure.Unanswered)
	c.summary(fmt.Sprintf("Part B Answered: %d/%d", partB, measure.ASRSPartBItems), "")
}
