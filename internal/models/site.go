// internal/models/site.go
package models

// FounderFact is what the extractor knows about one founder.
type FounderFact struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// YCCompanyRecord is the structured extract of a YC company page.
type YCCompanyRecord struct {
	CompanyName string        `json:"company_name"`
	LogoRef     string        `json:"company_small_logo_url"`
	Founders    []FounderFact `json:"founders"`
}

// GenericPageRecord is the visible text of an arbitrary page.
type GenericPageRecord struct {
	RawText string `json:"raw_text"`
}
