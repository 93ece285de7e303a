// Package personal extracts best-effort personal details from raw resume text.
//
// Every extractor here is a heuristic with no ground truth. Each field is
// resolved by an ordered chain of independent strategies and the first
// confident match wins. A gap degrades to a nil field; nothing in this
// package returns an error or panics on arbitrary input.
package personal

import (
	"strings"
)

// Data holds the extracted fields. Nil means "not found".
type Data struct {
	FullName    *string `json:"fullName"`
	Email       *string `json:"email"`
	Mobile      *string `json:"mobile"`
	LinkedIn    *string `json:"linkedIn"`
	GitHub      *string `json:"github"`
	Portfolio   *string `json:"portfolio"`
	DateOfBirth *string `json:"dateOfBirth"`
	Address     *string `json:"address"`
	Skills      *string `json:"skills"` // comma-joined
}

// SkillList splits the comma-joined skills field.
func (d Data) SkillList() []string {
	if d.Skills == nil || *d.Skills == "" {
		return nil
	}
	parts := strings.Split(*d.Skills, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Extract runs every field extractor over text. fileName is optional and is
// only used as a hint for the candidate's name.
func Extract(text, fileName string) (data Data) {
	defer func() {
		// Regex work over hostile input must never take the pipeline down.
		if recover() != nil {
			data = Data{}
		}
	}()

	text = strings.ReplaceAll(text, "\r\n", "\n")

	email := FindEmail(text)
	return Data{
		FullName:    ptr(ResolveName(text, fileName)),
		Email:       ptr(email),
		Mobile:      ptr(FindPhones(text)),
		LinkedIn:    ptr(FindLinkedIn(text)),
		GitHub:      ptr(FindGitHub(text)),
		Portfolio:   ptr(FindPortfolio(text)),
		DateOfBirth: ptr(FindDateOfBirth(text)),
		Address:     ptr(FindAddress(text)),
		Skills:      ptr(strings.Join(ExtractSkills(text), ", ")),
	}
}

func ptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
