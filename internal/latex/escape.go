package latex

import "strings"

// segment is a slice of a run's text.
// Raw segments were inside an escape window
// and bypass escaping and styling.
type segment struct {
	text string
	raw  bool
}

// splitWindows cuts text into escaped segments and raw escape windows.
//
// A start marker with no matching end marker is literal text:
// swallowing the rest of the document silently would corrupt output
// in a way that is hard to notice.
func splitWindows(text, start, end string) []segment {
	var segs []segment
	for {
		i := strings.Index(text, start)
		if i < 0 {
			break
		}
		j := strings.Index(text[i+len(start):], end)
		if j < 0 {
			break
		}
		if i > 0 {
			segs = append(segs, segment{text: text[:i]})
		}
		segs = append(segs, segment{
			text: text[i+len(start) : i+len(start)+j],
			raw:  true,
		})
		text = text[i+len(start)+j+len(end):]
	}
	if text != "" || len(segs) == 0 {
		segs = append(segs, segment{text: text})
	}
	return segs
}

// escape rewrites characters that are syntactically significant
// inside a Verbatim environment with commandchars enabled,
// so they render as literal glyphs.
func escape(s string, german bool) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\textbackslash{}`)
		case '{', '}', '%', '#', '_', '&':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '^':
			sb.WriteString(`\^{}`)
		case '~':
			sb.WriteString(`\~{}`)
		case '"':
			if german {
				sb.WriteString(`\dq{}`)
			} else {
				sb.WriteRune(r)
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
