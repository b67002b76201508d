package mapreduce

import "unicode/utf8"

// SplitChunks partitions doc into at most n contiguous chunks of roughly
// equal size. Every cut is moved forward until it no longer falls inside a
// word, so a word is never split between two chunks. Because of that the
// result may hold fewer than n chunks. The last chunk absorbs the
// remainder; an empty doc yields no chunks.
func SplitChunks(doc string, n int) []Chunk {
	if len(doc) == 0 || n < 1 {
		return nil
	}

	size := (len(doc) + n - 1) / n
	chunks := make([]Chunk, 0, n)

	for start := 0; start < len(doc); {
		end := start + size
		if end >= len(doc) || len(chunks) == n-1 {
			end = len(doc)
		} else {
			end = alignCut(doc, end)
		}

		chunks = append(chunks, Chunk{
			ID:    len(chunks),
			Start: start,
			End:   end,
			Text:  doc[start:end],
		})
		start = end
	}

	return chunks
}

// alignCut returns the first offset >= i that is a rune boundary and is
// not surrounded by word runes on both sides.
func alignCut(doc string, i int) int {
	for i < len(doc) && !utf8.RuneStart(doc[i]) {
		i++
	}

	for i < len(doc) {
		prev, _ := utf8.DecodeLastRuneInString(doc[:i])
		next, size := utf8.DecodeRuneInString(doc[i:])
		if !isWordRune(prev) || !isWordRune(next) {
			break
		}
		i += size
	}

	return i
}
