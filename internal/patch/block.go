// SPDX-License-Identifier: MPL-2.0

package patch

import (
	"regexp"
	"strings"
)

// The weapon check block runs from its comment marker through the closing
// brace after `return MARKER_WEAPON;`, spanning the condition's three
// continuation lines.
var weaponBlock = regexp.MustCompile(`(?s)// Check weapons.*?\n\s+if\s*\(\s*item\s+is\s+"Weapon".*?\n.*?\n.*?\n.*?\n\s+return MARKER_WEAPON;\n\s+\}`)

const weaponWorkaround = `// Check weapons - WORKAROUND VERSION
        // Avoiding 'is' operator due to parser bug
        let wpn = Weapon(item);  // Try casting to Weapon class
        if(wpn || 
           className.IndexOf("WEAPON") >= 0 ||
           className.IndexOf("Shotgun") >= 0 ||
           className.IndexOf("Cricket") >= 0) {
            return MARKER_WEAPON;
        }`

// BlockReplacer swaps the weapon check for a cast-and-null-check that avoids
// the `is` operator. When the full block cannot be matched it rewrites only
// the opening `if(item is "Weapon"` line, keeping its indentation.
//
// The block pattern is tolerant and may match code that merely looks similar,
// so its spans should be reviewed before the result is accepted.
type BlockReplacer struct{}

func (BlockReplacer) Name() string { return "block" }

func (BlockReplacer) Rewrite(src []byte) Rewrite {
	if loc := weaponBlock.FindIndex(src); loc != nil {
		out := make([]byte, 0, len(src))
		out = append(out, src[:loc[0]]...)
		out = append(out, weaponWorkaround...)
		out = append(out, src[loc[1]:]...)
		return Rewrite{
			Content: out,
			Spans: []Span{{
				Line:        lineOf(src, loc[0]),
				Original:    string(src[loc[0]:loc[1]]),
				Replacement: weaponWorkaround,
			}},
			Fixed: 1,
		}
	}
	return rewriteWeaponLine(src)
}

func rewriteWeaponLine(src []byte) Rewrite {
	lines := strings.Split(string(src), "\n")
	for i, line := range lines {
		if !strings.Contains(line, `if(item is "Weapon"`) && !strings.Contains(line, `if(item is "weapon"`) {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		repl := []string{
			indent + "// Check weapons - WORKAROUND VERSION",
			indent + "// Avoiding 'is' operator due to parser bug",
			indent + "let wpn = Weapon(item);  // Try casting to Weapon class",
			indent + "if(wpn ||",
		}
		out := make([]string, 0, len(lines)+len(repl)-1)
		out = append(out, lines[:i]...)
		out = append(out, repl...)
		out = append(out, lines[i+1:]...)
		return Rewrite{
			Content: []byte(strings.Join(out, "\n")),
			Spans:   []Span{{Line: i + 1, Original: line, Replacement: strings.Join(repl, "\n")}},
			Fixed:   1,
		}
	}
	return Rewrite{Content: src}
}

// ReplaceBlock swaps the weapon type check in src for the cast-based workaround.
func ReplaceBlock(src []byte) Rewrite {
	return BlockReplacer{}.Rewrite(src)
}
