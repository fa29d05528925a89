package recordfiles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdmkit/recordfiles/pkg/recordfiles"
)

func TestDetectScheme(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       recordfiles.Scheme
		wantOK     bool
	}{
		{name: "doi", identifier: "10.5281/zenodo.1234567", want: recordfiles.SchemeDOI, wantOK: true},
		{name: "arxiv bare", identifier: "2103.00020", want: recordfiles.SchemeArxiv, wantOK: true},
		{name: "arxiv prefixed", identifier: "arXiv:2103.00020v2", want: recordfiles.SchemeArxiv, wantOK: true},
		{name: "orcid", identifier: "0000-0002-1825-0097", want: recordfiles.SchemeOrcid, wantOK: true},
		{name: "orcid with X check digit", identifier: "0000-0002-1694-233X", want: recordfiles.SchemeOrcid, wantOK: true},
		{name: "handle", identifier: "20.500.12345/abcde", want: recordfiles.SchemeHandle, wantOK: true},
		{name: "ads bibcode", identifier: "1974AJ.....79..819H", want: recordfiles.SchemeBibcode, wantOK: true},
		{name: "plain url", identifier: "https://example.org/resource", want: recordfiles.SchemeURL, wantOK: true},
		{name: "doi wins over handle", identifier: "10.1000/xyz123", want: recordfiles.SchemeDOI, wantOK: true},
		{name: "unrecognized", identifier: "not-an-identifier", wantOK: false},
		{name: "empty", identifier: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := recordfiles.DetectScheme(tt.identifier)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIdentifierURL(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		scheme     recordfiles.Scheme
		urlScheme  string
		want       string
		wantErr    bool
	}{
		{
			name:       "doi default https",
			identifier: "10.5281/zenodo.1234567",
			scheme:     recordfiles.SchemeDOI,
			want:       "https://doi.org/10.5281/zenodo.1234567",
		},
		{
			name:       "doi explicit http",
			identifier: "10.5281/zenodo.1234567",
			scheme:     recordfiles.SchemeDOI,
			urlScheme:  "http",
			want:       "http://doi.org/10.5281/zenodo.1234567",
		},
		{
			name:       "arxiv strips prefix",
			identifier: "arXiv:2103.00020",
			scheme:     recordfiles.SchemeArxiv,
			want:       "https://arxiv.org/abs/2103.00020",
		},
		{
			name:       "orcid",
			identifier: "0000-0002-1825-0097",
			scheme:     recordfiles.SchemeOrcid,
			want:       "https://orcid.org/0000-0002-1825-0097",
		},
		{
			name:       "handle",
			identifier: "20.500.12345/abcde",
			scheme:     recordfiles.SchemeHandle,
			want:       "https://hdl.handle.net/20.500.12345/abcde",
		},
		{
			name:       "bibcode",
			identifier: "1974AJ.....79..819H",
			scheme:     recordfiles.SchemeBibcode,
			want:       "https://ui.adsabs.harvard.edu/abs/1974AJ.....79..819H",
		},
		{
			name:       "url passes through",
			identifier: "https://example.org/resource",
			scheme:     recordfiles.SchemeURL,
			want:       "https://example.org/resource",
		},
		{
			name:       "unknown scheme",
			identifier: "whatever",
			scheme:     recordfiles.Scheme("isbn"),
			wantErr:    true,
		},
		{
			name:    "empty identifier",
			scheme:  recordfiles.SchemeDOI,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := recordfiles.IdentifierURL(tt.identifier, tt.scheme, tt.urlScheme)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, recordfiles.ErrSchemeUnresolvable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDOIIdentifier(t *testing.T) {
	assert.Equal(t, "10.5281/zenodo.1234567", recordfiles.DOIIdentifier(map[string]string{
		"doi":   "10.5281/zenodo.1234567",
		"orcid": "0000-0002-1825-0097",
	}))
	assert.Equal(t, "", recordfiles.DOIIdentifier(map[string]string{"orcid": "0000-0002-1825-0097"}))
	assert.Equal(t, "", recordfiles.DOIIdentifier(nil))
}
