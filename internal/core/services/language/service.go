package language

import "gitlab.com/fcv-2025.net/codejudge/internal/domain"

// ILanguageRegistry resolves language identifiers to execution profiles
type ILanguageRegistry interface {
	// Resolve returns the profile for languageID, ignoring case and surrounding spaces
	Resolve(languageID string) (domain.LanguageProfile, error)

	// List returns every profile ordered by id
	List() []domain.LanguageProfile

	// Images returns the distinct container images the profiles need
	Images() []string
}
