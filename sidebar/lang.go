package sidebar

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// PickLang looks up the label translation for lang. Keys are matched exactly first,
// then by canonical BCP-47 form on both sides, then by the base language ("pt-BR" falls back to "pt").
func PickLang(translations map[string]string, lang string) (string, bool) {
	lang = strings.TrimSpace(lang)
	if len(translations) == 0 || lang == "" {
		return "", false
	}
	if value, ok := translations[lang]; ok {
		return value, true
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return "", false
	}
	canonical := canonicalKeys(translations)
	if value, ok := canonical[tag.String()]; ok {
		return value, true
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", false
	}
	if value, ok := canonical[base.String()]; ok {
		return value, true
	}
	return "", false
}

// canonicalKeys re-keys translations by canonical tag. Unparsable keys are dropped;
// when two keys share a canonical form the lexically first one wins.
func canonicalKeys(translations map[string]string) map[string]string {
	out := make(map[string]string, len(translations))
	for _, key := range slices.Sorted(maps.Keys(translations)) {
		tag, err := language.Parse(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		if _, seen := out[tag.String()]; !seen {
			out[tag.String()] = translations[key]
		}
	}
	return out
}
