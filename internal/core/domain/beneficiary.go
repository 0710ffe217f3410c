package domain

// BeneficiaryType is used only by the sharia allocation rule.
type BeneficiaryType string

const (
	BeneficiaryWife     BeneficiaryType = "wife"     // زوجة
	BeneficiarySon      BeneficiaryType = "son"      // ولد
	BeneficiaryDaughter BeneficiaryType = "daughter" // بنت
	BeneficiaryOther    BeneficiaryType = "other"
)

// Beneficiary is read from the external registry; this engine never writes it.
type Beneficiary struct {
	BeneficiaryID   string          `json:"beneficiaryID"`
	FullName        string          `json:"fullName"`
	BeneficiaryType BeneficiaryType `json:"beneficiaryType"`
}

// NormalizeBeneficiaryType maps the registry's Arabic or English labels onto a BeneficiaryType.
func NormalizeBeneficiaryType(label string) BeneficiaryType {
	switch label {
	case "wife", "زوجة":
		return BeneficiaryWife
	case "son", "ولد", "ابن":
		return BeneficiarySon
	case "daughter", "بنت", "ابنة":
		return BeneficiaryDaughter
	default:
		return BeneficiaryOther
	}
}
