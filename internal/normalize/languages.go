package normalize

import (
	"errors"
	"sort"
	"strings"
)

// ErrUnknownLanguage is returned when a token is neither a recognized
// ISO 639-2 code nor a recognized display name.
var ErrUnknownLanguage = errors.New("unrecognized language")

// languageNames maps ISO 639-2 codes to display names. This mirrors the
// controlled vocabulary journals publish with; it is not a complete ISO
// registry.
var languageNames = map[string]string{
	"afr": "Afrikaans",
	"ara": "Arabic",
	"ben": "Bengali",
	"bul": "Bulgarian",
	"cat": "Catalan",
	"ces": "Czech",
	"cym": "Welsh",
	"dan": "Danish",
	"deu": "German",
	"ell": "Greek",
	"eng": "English",
	"est": "Estonian",
	"eus": "Basque",
	"fas": "Persian",
	"fin": "Finnish",
	"fra": "French",
	"gle": "Irish",
	"glg": "Galician",
	"heb": "Hebrew",
	"hin": "Hindi",
	"hrv": "Croatian",
	"hun": "Hungarian",
	"hye": "Armenian",
	"ind": "Indonesian",
	"isl": "Icelandic",
	"ita": "Italian",
	"jpn": "Japanese",
	"kat": "Georgian",
	"kor": "Korean",
	"lat": "Latin",
	"lav": "Latvian",
	"lit": "Lithuanian",
	"mkd": "Macedonian",
	"msa": "Malay",
	"nld": "Dutch",
	"nor": "Norwegian",
	"pol": "Polish",
	"por": "Portuguese",
	"ron": "Romanian",
	"rus": "Russian",
	"slk": "Slovak",
	"slv": "Slovenian",
	"spa": "Spanish",
	"sqi": "Albanian",
	"srp": "Serbian",
	"swa": "Swahili",
	"swe": "Swedish",
	"tam": "Tamil",
	"tha": "Thai",
	"tur": "Turkish",
	"ukr": "Ukrainian",
	"urd": "Urdu",
	"vie": "Vietnamese",
	"yor": "Yoruba",
	"zho": "Chinese",
	"zul": "Zulu",
}

// languageCodes is the inverse of languageNames, keyed by display name.
// Display-name matching is case-sensitive.
var languageCodes = func() map[string]string {
	m := make(map[string]string, len(languageNames))
	for code, name := range languageNames {
		m[name] = code
	}
	return m
}()

// LanguageCode resolves a language token to its canonical ISO 639-2 code.
// The token may be a code or an exact display name.
func LanguageCode(token string) (string, error) {
	token = strings.TrimSpace(token)
	if _, ok := languageNames[token]; ok {
		return token, nil
	}
	if code, ok := languageCodes[token]; ok {
		return code, nil
	}
	return "", ErrUnknownLanguage
}

// LanguageName returns the display name for a canonical code, or the
// empty string if the code is not recognized.
func LanguageName(code string) string {
	return languageNames[code]
}

// LanguageCodes returns all recognized codes in sorted order.
func LanguageCodes() []string {
	codes := make([]string, 0, len(languageNames))
	for code := range languageNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
