package recordfiles

import (
	"fmt"
	"regexp"
	"strings"
)

// Scheme classifies a persistent identifier for URL generation.
type Scheme string

const (
	SchemeDOI     Scheme = "doi"
	SchemeHandle  Scheme = "handle"
	SchemeOrcid   Scheme = "orcid"
	SchemeArxiv   Scheme = "arxiv"
	SchemeBibcode Scheme = "bibcode"
	SchemeURL     Scheme = "url"
)

var (
	doiPattern     = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
	orcidPattern   = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)
	arxivPattern   = regexp.MustCompile(`^(arXiv:)?\d{4}\.\d{4,5}(v\d+)?$`)
	bibcodePattern = regexp.MustCompile(`^\d{4}[A-Za-z]\S{13}[A-Z.:]$`)
	handlePattern  = regexp.MustCompile(`^\d+(\.\d+)*/\S+$`)
	urlPattern     = regexp.MustCompile(`^https?://\S+$`)
)

// DetectScheme classifies identifier. The second return value is false
// when no scheme matches; callers decide the fallback (templates render
// an empty link) instead of relying on error interception. Precedence:
// doi, handle, orcid, arxiv, bibcode, plain URL. DOIs outrank handles
// because every DOI is also a syntactically valid handle.
func DetectScheme(identifier string) (Scheme, bool) {
	switch {
	case doiPattern.MatchString(identifier):
		return SchemeDOI, true
	case handlePattern.MatchString(identifier):
		return SchemeHandle, true
	case orcidPattern.MatchString(identifier):
		return SchemeOrcid, true
	case arxivPattern.MatchString(identifier):
		return SchemeArxiv, true
	case bibcodePattern.MatchString(identifier):
		return SchemeBibcode, true
	case urlPattern.MatchString(identifier):
		return SchemeURL, true
	default:
		return "", false
	}
}

// IdentifierURL renders identifier as a link under the given URL
// scheme ("https" unless the caller says otherwise).
func IdentifierURL(identifier string, scheme Scheme, urlScheme string) (string, error) {
	if identifier == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrSchemeUnresolvable)
	}
	if urlScheme == "" {
		urlScheme = "https"
	}

	switch scheme {
	case SchemeDOI:
		return fmt.Sprintf("%s://doi.org/%s", urlScheme, identifier), nil
	case SchemeArxiv:
		return fmt.Sprintf("%s://arxiv.org/abs/%s", urlScheme, strings.TrimPrefix(identifier, "arXiv:")), nil
	case SchemeOrcid:
		return fmt.Sprintf("%s://orcid.org/%s", urlScheme, identifier), nil
	case SchemeHandle:
		return fmt.Sprintf("%s://hdl.handle.net/%s", urlScheme, identifier), nil
	case SchemeBibcode:
		return fmt.Sprintf("%s://ui.adsabs.harvard.edu/abs/%s", urlScheme, identifier), nil
	case SchemeURL:
		return identifier, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrSchemeUnresolvable, scheme)
	}
}

// DOIIdentifier extracts the DOI value from an identifier mapping,
// returning "" when the mapping carries none.
func DOIIdentifier(identifiers map[string]string) string {
	return identifiers[string(SchemeDOI)]
}
