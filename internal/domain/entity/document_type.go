package entity

// DocumentType kind of generated legal document.
type DocumentType string

const (
	DocumentLPA                 DocumentType = "lpa"
	DocumentPersonalInfoConsent DocumentType = "personal_info_consent"
	DocumentMemberList          DocumentType = "member_list"
)

// DocumentTypes lists every supported type.
var DocumentTypes = []DocumentType{DocumentLPA, DocumentPersonalInfoConsent, DocumentMemberList}

// Valid reports whether t is a supported type.
func (t DocumentType) Valid() bool {
	for _, v := range DocumentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// SoftDelete reports whether versions of this type are deactivated instead of removed.
func (t DocumentType) SoftDelete() bool {
	return t == DocumentMemberList
}

// Label human readable name used in file names and e-mails.
func (t DocumentType) Label() string {
	switch t {
	case DocumentLPA:
		return "조합규약"
	case DocumentPersonalInfoConsent:
		return "개인정보 수집·이용 동의서"
	case DocumentMemberList:
		return "조합원 명부"
	default:
		return string(t)
	}
}
