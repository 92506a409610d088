// SPDX-License-Identifier: MPL-2.0

package patch

import (
	"regexp"
	"strconv"
)

// DefaultTypeName is the class whose comparisons the ZScript parser gets wrong
// when the literal's case differs from the declaration.
const DefaultTypeName = "Weapon"

// CaseNormalizer rewrites every `is "<type>"` comparison whose spelling differs
// from the canonical `is "<TypeName>"`. Matching ignores case and the amount of
// whitespace after the operator.
type CaseNormalizer struct {
	TypeName string
}

// NewCaseNormalizer returns a CaseNormalizer for typeName, or DefaultTypeName when empty.
func NewCaseNormalizer(typeName string) *CaseNormalizer {
	if typeName == "" {
		typeName = DefaultTypeName
	}
	return &CaseNormalizer{TypeName: typeName}
}

func (c *CaseNormalizer) Name() string { return "case" }

// Canonical is the replacement text, e.g. `is "Weapon"`.
func (c *CaseNormalizer) Canonical() string {
	return "is " + strconv.Quote(c.TypeName)
}

func (c *CaseNormalizer) pattern() *regexp.Regexp {
	return regexp.MustCompile(`(?i)\bis\s*"` + regexp.QuoteMeta(c.TypeName) + `"`)
}

// Rewrite returns src with every non-canonical occurrence replaced. Occurrences
// that are already canonical are left alone and not counted.
func (c *CaseNormalizer) Rewrite(src []byte) Rewrite {
	canonical := c.Canonical()
	matches := c.pattern().FindAllIndex(src, -1)

	out := make([]byte, 0, len(src))
	var spans []Span
	last := 0
	for _, m := range matches {
		text := string(src[m[0]:m[1]])
		if text == canonical {
			continue
		}
		out = append(out, src[last:m[0]]...)
		out = append(out, canonical...)
		last = m[1]
		spans = append(spans, Span{Line: lineOf(src, m[0]), Original: text, Replacement: canonical})
	}
	out = append(out, src[last:]...)

	return Rewrite{Content: out, Spans: spans, Fixed: len(spans)}
}

// NormalizeCase rewrites every mis-cased `is "<typeName>"` comparison in src.
func NormalizeCase(src []byte, typeName string) Rewrite {
	return NewCaseNormalizer(typeName).Rewrite(src)
}
