package client

// SplitChunks cuts data into chunkSize pieces. Chunk i covers
// [i*chunkSize, min((i+1)*chunkSize, len(data))), so empty data has no chunks.
// The pieces share data's backing array.
func SplitChunks(data []byte, chunkSize int) [][]byte {
	if chunkSize <= 0 {
		return nil
	}

	numChunks := (len(data) + chunkSize - 1) / chunkSize
	chunks := make([][]byte, 0, numChunks)

	for start := 0; start < len(data); start += chunkSize {
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}

		chunks = append(chunks, data[start:end:end])
	}

	return chunks
}
