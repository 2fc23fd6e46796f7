package report

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// EstimateTokens approximates the token count of text. Without a local
// tokenizer for hosted models, length/4 is the usual engineering estimate
// and errs on the safe side for markdown.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}

var sectionHeadingRe = regexp.MustCompile(`(?m)(^#{2,3}\s+[^\n]+$)`)

// ChunkText splits markdown into chunks that fit within maxTokens. It
// splits on `##`/`###` headings first, packing adjacent sections together,
// then re-splits any oversized chunk on blank lines.
func ChunkText(text string, maxTokens int) []string {
	if maxTokens <= 0 || EstimateTokens(text) <= maxTokens {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	pieces := splitKeepingHeadings(text)

	var chunks []string
	current := ""
	for _, piece := range pieces {
		combined := current + piece
		if EstimateTokens(combined) > maxTokens && current != "" {
			chunks = append(chunks, current)
			current = piece
		} else {
			current = combined
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	// Second pass: paragraphs, for sections bigger than the budget.
	var result []string
	for _, chunk := range chunks {
		if EstimateTokens(chunk) <= maxTokens {
			result = append(result, chunk)
			continue
		}
		paragraphs := strings.Split(chunk, "\n\n")
		current := ""
		for _, para := range paragraphs {
			candidate := current + para + "\n\n"
			if EstimateTokens(candidate) > maxTokens && current != "" {
				result = append(result, current)
				current = para + "\n\n"
			} else {
				current = candidate
			}
		}
		if strings.TrimSpace(current) != "" {
			result = append(result, current)
		}
	}

	return result
}

// splitKeepingHeadings cuts text at section headings, keeping each heading
// attached to the body that follows it.
func splitKeepingHeadings(text string) []string {
	locs := sectionHeadingRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	var pieces []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			pieces = append(pieces, text[prev:loc[0]])
		}
		prev = loc[0]
	}
	pieces = append(pieces, text[prev:])
	return pieces
}

// Section is a (heading, body) pair used for keyword routing.
type Section struct {
	Heading string
	Body    string
}

// SplitSections parses the master document into heading/body pairs.
// Content before the first heading becomes a section with an empty heading.
func SplitSections(text string) []Section {
	locs := sectionHeadingRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Section{{Heading: "", Body: text}}
	}

	var sections []Section
	if locs[0][0] > 0 {
		sections = append(sections, Section{Heading: "", Body: text[:locs[0][0]]})
	}
	for i, loc := range locs {
		heading := text[loc[0]:loc[1]]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		sections = append(sections, Section{
			Heading: strings.TrimSpace(heading),
			Body:    strings.TrimSpace(text[loc[1]:end]),
		})
	}
	return sections
}

// SelectContent joins the sections whose heading or body mentions any of
// the keywords, capped at maxTokens. Returns "" when nothing matches.
func SelectContent(sections []Section, keywords []string, maxTokens int) string {
	var b strings.Builder
	for _, s := range sections {
		haystack := strings.ToLower(s.Heading + "\n" + s.Body)
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				if EstimateTokens(b.String()) >= maxTokens {
					return b.String()
				}
				b.WriteString(s.Heading + "\n\n" + s.Body + "\n\n")
				break
			}
		}
	}
	return strings.TrimSpace(b.String())
}
