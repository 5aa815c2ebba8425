package ollama

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/orpheus-tts/orpheus-go/tts"
)

// tokenSpace is the size of the model's audio codebook.
const tokenSpace = 4096

// tokenOffset is subtracted from raw custom token ids before folding them
// into the codebook.
const tokenOffset = 32000

var customTokenPattern = regexp.MustCompile(`<custom_token_(\d+)>`)

// ExtractTokens pulls audio token ids out of raw model output. Raw ids are
// mapped into the codebook as (id - 32000) mod 4096; anything else in the
// output is ignored.
func ExtractTokens(output string) []int {
	if output == "" {
		return nil
	}

	matches := customTokenPattern.FindAllStringSubmatch(output, -1)
	tokens := make([]int, 0, len(matches))
	for _, match := range matches {
		raw, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		id := ((raw-tokenOffset)%tokenSpace + tokenSpace) % tokenSpace
		tokens = append(tokens, id)
	}
	return tokens
}

// SimulatedTokens derives a deterministic pseudo token stream from the
// text and voice, roughly 10 to 20 tokens per word. Identical inputs
// always yield identical streams, which keeps the placeholder audio
// cacheable.
func SimulatedTokens(text string, voice tts.Voice) []int {
	hash := sha256.Sum256([]byte(text + "_" + string(voice)))
	seed := int64(binary.BigEndian.Uint64(hash[:8]))
	rng := rand.New(rand.NewSource(seed))

	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	count := words * (10 + rng.Intn(11))

	tokens := make([]int, count)
	for i := range tokens {
		tokens[i] = rng.Intn(tokenSpace)
	}
	return tokens
}
