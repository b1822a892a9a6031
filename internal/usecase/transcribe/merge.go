package transcribe

import "strings"

// chunk is a window of PCM samples in chronological order.
type chunk struct {
	samples []int16
}

// splitChunks cuts samples into windows of at most maxSeconds, each window
// starting overlapSeconds before the previous one ended. A recording that
// fits a single pass comes back as one chunk.
func splitChunks(samples []int16, maxSeconds, overlapSeconds int) []chunk {
	window := maxSeconds * sampleRate
	overlap := overlapSeconds * sampleRate

	if len(samples) <= window {
		return []chunk{{samples: samples}}
	}

	var chunks []chunk
	step := window - overlap
	for start := 0; start < len(samples); start += step {
		end := start + window
		if end > len(samples) {
			end = len(samples)
		}
		chunks = append(chunks, chunk{samples: samples[start:end]})
		if end == len(samples) {
			break
		}
	}
	return chunks
}

// mergeTranscripts concatenates chunk transcripts in chronological order,
// trimming the words repeated across each chunk boundary. The repeated region
// is found by the longest suffix of the accumulated words that equals a
// prefix of the next chunk's words, compared on normalized tokens.
func mergeTranscripts(parts []string) string {
	var merged []string
	for _, part := range parts {
		words := strings.Fields(part)
		if len(words) == 0 {
			continue
		}
		if len(merged) == 0 {
			merged = words
			continue
		}

		k := overlapLength(merged, words)
		merged = append(merged, words[k:]...)
	}
	return strings.Join(merged, " ")
}

// overlapLength returns the length of the longest suffix of a that matches a
// prefix of b.
func overlapLength(a, b []string) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}

	for k := max; k > 0; k-- {
		match := true
		for i := 0; i < k; i++ {
			if normalizeToken(a[len(a)-k+i]) != normalizeToken(b[i]) {
				match = false
				break
			}
		}
		if match {
			return k
		}
	}
	return 0
}

// normalizeToken lowercases a word and strips boundary punctuation so that
// chunk-edge artifacts ("launch." vs "launch") still line up.
func normalizeToken(word string) string {
	return strings.ToLower(strings.Trim(word, ".,!?;:'\""))
}
