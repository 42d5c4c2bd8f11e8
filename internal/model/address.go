package model

import "strings"

// JoinAddress renders "street, city, state zip", skipping empty parts.
func JoinAddress(street, city, state, zip string) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{street, city} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if tail := strings.TrimSpace(strings.TrimSpace(state) + " " + strings.TrimSpace(zip)); tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

func (r IntakeRecord) PatientAddress() string {
	return JoinAddress(r.Address, r.City, r.State, r.Zip)
}

func (r IntakeRecord) GuardianFullAddress() string {
	return JoinAddress(r.GuardianAddress, r.GuardianCity, r.GuardianState, r.GuardianZip)
}

func (r IntakeRecord) EmergencyFullAddress() string {
	return JoinAddress(r.EmergencyAddress, r.EmergencyCity, r.EmergencyState, r.EmergencyZip)
}
