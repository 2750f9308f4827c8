package util

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaskKind names a kind of identity document.
type MaskKind string

const (
	MaskPhone              MaskKind = "phone"
	MaskIDCard             MaskKind = "idCard"
	MaskOrgID              MaskKind = "orgIDNumber"
	MaskMilitaryCard       MaskKind = "militaryCard"
	MaskArmedPoliceCard    MaskKind = "armedPoliceCard"
	MaskSoldierCard        MaskKind = "soldierCard"
	MaskPassport           MaskKind = "passport"
	MaskHouseholdBook      MaskKind = "houseHoldBook"
	MaskForeignerResidence MaskKind = "foreignersResidenceCard"
	MaskHKMacaoPass        MaskKind = "passForHongKongAndMacaoResidents"
	MaskTaiwanPass         MaskKind = "TaiwanResidentPass"
	MaskOther              MaskKind = "other"
)

var (
	keepEnds = map[MaskKind]*regexp.Regexp{
		MaskPhone:           regexp.MustCompile(`(\d{3})\d*(\d{4})`),
		MaskIDCard:          regexp.MustCompile(`(\d{6})\d*(\d{4})`),
		MaskOrgID:           regexp.MustCompile(`(\d{6})\d*(\d{4})`),
		MaskMilitaryCard:    regexp.MustCompile(`(\d)\d*(\d)`),
		MaskArmedPoliceCard: regexp.MustCompile(`(\d)\d*(\d)`),
		MaskSoldierCard:     regexp.MustCompile(`(\d)\d*(\d)`),
	}
	allDigits = map[MaskKind]bool{
		MaskPassport:           true,
		MaskHouseholdBook:      true,
		MaskForeignerResidence: true,
		MaskHKMacaoPass:        true,
		MaskTaiwanPass:         true,
		MaskOther:              true,
	}
	digit = regexp.MustCompile(`\d`)
)

// Mask hides the middle of an identity number. Phone numbers must be 11
// characters long or are returned unchanged; passport-like documents have
// every digit replaced. Unknown kinds are returned unchanged.
func Mask(s string, kind MaskKind) string {
	if kind == "" {
		kind = MaskPhone
	}
	if kind == MaskPhone && utf8.RuneCountInString(s) != 11 {
		return s
	}
	if allDigits[kind] {
		return digit.ReplaceAllString(s, "*")
	}
	re, ok := keepEnds[kind]
	if !ok {
		return s
	}
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	var b strings.Builder
	b.WriteString(s[:m[0]])
	b.WriteString(s[m[2]:m[3]])
	b.WriteString("****")
	b.WriteString(s[m[4]:m[5]])
	b.WriteString(s[m[1]:])
	return b.String()
}
