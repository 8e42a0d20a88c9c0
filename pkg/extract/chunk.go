package extract

import "strings"

// splitIntoChunks splits text on blank-line boundaries and greedily packs
// consecutive paragraphs into chunks of at most maxLength characters. The
// bound counts the blank line that joins paragraphs. A single paragraph
// longer than maxLength becomes its own oversized chunk; the bound is not
// enforced by truncation.
func splitIntoChunks(text string, maxLength int) []string {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	current := ""
	for _, paragraph := range paragraphs {
		if len(current)+len(paragraph)+2 <= maxLength {
			if current != "" {
				current += "\n\n" + paragraph
			} else {
				current = paragraph
			}
			continue
		}
		if current != "" {
			chunks = append(chunks, current)
		}
		current = paragraph
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
