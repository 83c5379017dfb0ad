package report

import (
	"encoding/hex"
	"strings"

	"github.com/txaty/go-merkletree"

	"transcheck/internal/hash"
)

type block []byte

func (b block) Serialize() ([]byte, error) {
	return b, nil
}

// lines renders one canonical line per finding and unavailable language, in report order.
func lines(r *Report) [][]byte {
	out := make([][]byte, 0, len(r.Findings)+len(r.Unavailable))
	for _, f := range r.Findings {
		out = append(out, []byte(strings.Join([]string{
			f.Kind.String(),
			f.Language,
			f.Key,
			f.File,
			strings.Join(f.Variables, ","),
			f.ReferenceLanguage,
			f.ReferenceFile,
			strings.Join(f.ReferenceVariables, ","),
		}, "\x1f")))
	}
	for _, u := range r.Unavailable {
		cause := ""
		if u.Cause != nil {
			cause = u.Cause.Error()
		}
		out = append(out, []byte("UNAVAILABLE\x1f"+u.Language+"\x1f"+cause))
	}
	return out
}

// Digest returns the hex merkle root of the report's findings and unavailable
// languages. Identical reports always share a digest.
func Digest(r *Report) string {
	leaves := lines(r)

	// go-merkletree needs at least two blocks
	switch len(leaves) {
	case 0:
		sum, _ := hash.XXHashFunc([]byte("empty-report"))
		return hex.EncodeToString(sum)
	case 1:
		sum, _ := hash.XXHashFunc(leaves[0])
		return hex.EncodeToString(sum)
	}

	blocks := make([]merkletree.DataBlock, len(leaves))
	for i, l := range leaves {
		blocks[i] = block(l)
	}

	tree, err := merkletree.New(&merkletree.Config{HashFunc: hash.XXHashFunc}, blocks)
	if err != nil {
		return hash.Sum(joinLines(leaves))
	}
	return hex.EncodeToString(tree.Root)
}

func joinLines(leaves [][]byte) []byte {
	var b []byte
	for _, l := range leaves {
		b = append(b, l...)
		b = append(b, '\n')
	}
	return b
}
