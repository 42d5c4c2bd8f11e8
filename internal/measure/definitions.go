package measure

// Instrument identifies one of the screening questionnaires collected by the intake.
type Instrument string

const (
	PHQ9 Instrument = "phq9"
	GAD7 Instrument = "gad7"
	MDQ  Instrument = "mdq"
	PCLC Instrument = "pclc"
	ASRS Instrument = "asrs"
)

// Unanswered marks an item the patient has not answered yet. It is outside the
// value domain of every numeric instrument.
const Unanswered = -1

// Item counts. The answer vectors in the intake record are sized from these.
const (
	PHQ9Items      = 9
	GAD7Items      = 7
	MDQItems       = 13
	PCLCItems      = 17
	ASRSPartAItems = 6
	ASRSPartBItems = 12
	ASRSItems      = ASRSPartAItems + ASRSPartBItems
)

// Option is one selectable answer on an instrument's response scale.
type Option struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// FollowUp is a categorical question asked after an instrument's item list.
type FollowUp struct {
	Key      string   `json:"key"`
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
}

// Definition is the static description of an instrument. Questions[i] always
// corresponds to index i of the answer vector.
type Definition struct {
	ID           Instrument `json:"id"`
	Code         string     `json:"code"`
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	Instructions string     `json:"instructions"`
	Questions    []string   `json:"questions"`
	Options      []Option   `json:"options"`
	Boolean      bool       `json:"boolean"`
	FollowUps    []FollowUp `json:"follow_ups,omitempty"`
}

// Min returns the lowest valid answer value.
func (d Definition) Min() int {
	return d.Options[0].Value
}

// Max returns the highest valid answer value.
func (d Definition) Max() int {
	return d.Options[len(d.Options)-1].Value
}

// Valid reports whether v is inside the instrument's response scale.
func (d Definition) Valid(v int) bool {
	return v >= d.Min() && v <= d.Max()
}

// Label returns the option label for v, or "" when v is not a valid answer.
func (d Definition) Label(v int) string {
	for _, o := range d.Options {
		if o.Value == v {
			return o.Label
		}
	}
	return ""
}

var phq9Definition = Definition{
	ID:           PHQ9,
	Code:         "PHQ-9",
	Title:        "Patient Health Questionnaire",
	Subtitle:     "Depression screening — 9 questions",
	Instructions: "Over the last 2 weeks, how often have you been bothered by any of the following problems?",
	Questions: []string{
		"Little interest or pleasure in doing things",
		"Feeling down, depressed, or hopeless",
		"Trouble falling or staying asleep, or sleeping too much",
		"Feeling tired or having little energy",
		"Poor appetite or overeating",
		"Feeling bad about yourself — or that you are a failure or have let yourself or your family down",
		"Trouble concentrating on things, such as reading the newspaper or watching television",
		"Moving or speaking so slowly that other people could have noticed? Or the opposite — being so fidgety or restless that you have been moving around a lot more than usual",
		"Thoughts that you would be better off dead, or of hurting yourself in some way",
	},
	Options: []Option{
		{Label: "Not at all", Value: 0},
		{Label: "Several days", Value: 1},
		{Label: "More than half the days", Value: 2},
		{Label: "Nearly every day", Value: 3},
	},
	FollowUps: []FollowUp{
		{
			Key:      "phq9Difficulty",
			Question: "If you checked off any problems, how difficult have these made it for you to do your work, take care of things at home, or get along with other people?",
			Choices:  []string{"Not difficult at all", "Somewhat difficult", "Very difficult", "Extremely difficult"},
		},
	},
}

var gad7Definition = Definition{
	ID:           GAD7,
	Code:         "GAD-7",
	Title:        "Generalized Anxiety Disorder Scale",
	Subtitle:     "Anxiety screening — 7 questions",
	Instructions: "Over the last 2 weeks, how often have you been bothered by the following problems?",
	Questions: []string{
		"Feeling nervous, anxious, or on edge",
		"Not being able to stop or control worrying",
		"Worrying too much about different things",
		"Trouble relaxing",
		"Being so restless that it's hard to sit still",
		"Becoming easily annoyed or irritable",
		"Feeling afraid as if something awful might happen",
	},
	Options: []Option{
		{Label: "Not at all", Value: 0},
		{Label: "Several days", Value: 1},
		{Label: "Over half the days", Value: 2},
		{Label: "Nearly every day", Value: 3},
	},
}

// MDQ follow-up answers that count toward a positive screen.
const (
	MDQSameTimeYes          = "Yes"
	MDQModerateProblem      = "Moderate problem"
	MDQSeriousProblem       = "Serious problem"
	MDQPositiveYesThreshold = 7
)

var mdqDefinition = Definition{
	ID:           MDQ,
	Code:         "MDQ",
	Title:        "Mood Disorder Questionnaire",
	Subtitle:     "Bipolar disorder screening",
	Instructions: "Has there ever been a period of time when you were not your usual self and...",
	Questions: []string{
		"...you felt so good or so hyper that other people thought you were not your normal self, or you were so hyper that you got into trouble?",
		"...you were so irritable that you shouted at people or started fights or arguments?",
		"...you felt much more self-confident than usual?",
		"...you got much less sleep than usual and found you didn't really miss it?",
		"...you were much more talkative or spoke much faster than usual?",
		"...thoughts raced through your head and you couldn't slow your mind down?",
		"...you were so easily distracted by things around you that you had trouble concentrating or staying on track?",
		"...you had much more energy than usual?",
		"...you were much more active or did many more things than usual?",
		"...you were much more social or outgoing than usual; for example, you telephoned friends in the middle of the night?",
		"...you were much more interested in sex than usual?",
		"...you did things that were unusual for you or that other people might have thought were excessive, foolish, or risky?",
		"...spending money got you or your family into trouble?",
	},
	Options: []Option{
		{Label: "No", Value: 0},
		{Label: "Yes", Value: 1},
	},
	Boolean: true,
	FollowUps: []FollowUp{
		{
			Key:      "mdqSameTime",
			Question: "If you checked YES to more than one of the above, have several of these ever happened during the same period of time?",
			Choices:  []string{"Yes", "No"},
		},
		{
			Key:      "mdqProblemLevel",
			Question: "How much of a problem did any of these cause you — like being unable to work; having family, money, or legal troubles; getting into arguments or fights?",
			Choices:  []string{"No problem", "Minor problem", MDQModerateProblem, MDQSeriousProblem},
		},
		{
			Key:      "mdqFamilyHistory",
			Question: "Have any of your blood relatives (children, siblings, parents, grandparents, aunts, uncles) had manic-depressive illness or bipolar disorder?",
			Choices:  []string{"Yes", "No"},
		},
		{
			Key:      "mdqProfessionalDiagnosis",
			Question: "Has a health professional ever told you that you have manic-depressive illness or bipolar disorder?",
			Choices:  []string{"Yes", "No"},
		},
	},
}

var pclcDefinition = Definition{
	ID:           PCLC,
	Code:         "PCL-C",
	Title:        "PTSD Checklist — Civilian Version",
	Subtitle:     "Trauma screening — 17 questions",
	Instructions: "Below is a list of problems and complaints that people sometimes have in response to stressful life experiences. Indicate how much you have been bothered by each problem in the past month.",
	Questions: []string{
		"Repeated, disturbing memories, thoughts, or images of a stressful experience from the past",
		"Repeated, disturbing dreams of a stressful experience from the past",
		"Suddenly acting or feeling as if a stressful experience were happening again (as if you were reliving it)",
		"Feeling very upset when something reminded you of a stressful experience from the past",
		"Having physical reactions (e.g., heart pounding, trouble breathing, sweating) when something reminded you of a stressful experience from the past",
		"Avoiding thinking about or talking about a stressful experience from the past or avoiding having feelings related to it",
		"Avoiding activities or situations because they reminded you of a stressful experience from the past",
		"Trouble remembering important parts of a stressful experience from the past",
		"Loss of interest in activities that you used to enjoy",
		"Feeling distant or cut off from other people",
		"Feeling emotionally numb or being unable to have loving feelings for those close to you",
		"Feeling as if your future will somehow be cut short",
		"Trouble falling or staying asleep",
		"Feeling irritable or having angry outbursts",
		"Having difficulty concentrating",
		"Being \"super-alert\" or watchful or on guard",
		"Feeling jumpy or easily startled",
	},
	Options: []Option{
		{Label: "Not at all", Value: 1},
		{Label: "A little bit", Value: 2},
		{Label: "Moderately", Value: 3},
		{Label: "Quite a bit", Value: 4},
		{Label: "Extremely", Value: 5},
	},
}

var asrsDefinition = Definition{
	ID:           ASRS,
	Code:         "ASRS",
	Title:        "Adult ADHD Self-Report Scale",
	Subtitle:     "Part A & Part B — 18 questions",
	Instructions: "Rate yourself on each of the criteria shown. Choose the answer that best describes how you have felt and conducted yourself over the past 6 months.",
	Questions: []string{
		// Part A
		"How often do you have trouble wrapping up the final details of a project, once the challenging parts have been done?",
		"How often do you have difficulty getting things in order when you have to do a task that requires organization?",
		"How often do you have problems remembering appointments or obligations?",
		"When you have a task that requires a lot of thought, how often do you avoid or delay getting started?",
		"How often do you fidget or squirm with your hands or feet when you have to sit down for a long time?",
		"How often do you feel overly active and compelled to do things, like you were driven by a motor?",
		// Part B
		"How often do you make careless mistakes when you have to work on a boring or difficult project?",
		"How often do you have difficulty keeping your attention when you are doing boring or repetitive work?",
		"How often do you have difficulty concentrating on what people say to you, even when they are speaking to you directly?",
		"How often do you misplace or have difficulty finding things at home or at work?",
		"How often are you distracted by activity or noise around you?",
		"How often do you leave your seat in meetings or other situations in which you are expected to remain seated?",
		"How often do you feel restless or fidgety?",
		"How often do you have difficulty unwinding and relaxing when you have time to yourself?",
		"How often do you find yourself talking too much when you are in social situations?",
		"When you're in a conversation, how often do you find yourself finishing the sentences of the people you are talking to, before they can finish them themselves?",
		"How often do you have difficulty waiting your turn in situations when turn taking is required?",
		"How often do you interrupt others when they are busy?",
	},
	Options: []Option{
		{Label: "Never", Value: 0},
		{Label: "Rarely", Value: 1},
		{Label: "Sometimes", Value: 2},
		{Label: "Often", Value: 3},
		{Label: "Very Often", Value: 4},
	},
}

// Order is the fixed order instruments are presented, scored and rendered in.
var Order = []Instrument{PHQ9, GAD7, MDQ, PCLC, ASRS}

var definitions = map[Instrument]Definition{
	PHQ9: phq9Definition,
	GAD7: gad7Definition,
	MDQ:  mdqDefinition,
	PCLC: pclcDefinition,
	ASRS: asrsDefinition,
}

// Lookup returns the definition for id.
func Lookup(id Instrument) (Definition, bool) {
	d, ok := definitions[id]
	return d, ok
}

// MustLookup returns the definition for one of the package's own instrument
// constants. It panics for unknown ids.
func MustLookup(id Instrument) Definition {
	d, ok := definitions[id]
	if !ok {
		panic("measure: unknown instrument " + string(id))
	}
	return d
}

// All returns every definition in presentation order.
func All() []Definition {
	out := make([]Definition, 0, len(Order))
	for _, id := range Order {
		out = append(out, definitions[id])
	}
	return out
}
