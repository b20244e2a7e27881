package columns

import (
	"sort"
	"strconv"
	"strings"

	"github.com/talus-io/talus/internal/tabular"
	"github.com/talus-io/talus/pkg/textnorm"
)

// Roles recoverable by positional inference. Only the fields the pipeline
// cannot live without are worth guessing; everything else stays empty when
// no header was decoded.
const (
	RoleDate     = "date"
	RoleQuantity = "quantity"
	RoleChapter  = "chapter"
	RoleResource = "resource"
)

const inferSampleRows = 50

type columnStats struct {
	nonEmpty int
	dates    int
	numbers  int
	chapters int
	words    int
}

// InferPositions samples positionally-keyed rows and guesses which column
// index carries which role: a column holding accounting-chapter allow-list
// tokens, a mostly-date column, a mostly-numeric column, and the first
// mostly-textual column left over. Best-effort: rows decoded with real
// headers produce an empty map, and a role that cannot be recovered is
// simply absent.
func InferPositions(rows []tabular.Row, chapterTokens []string) map[int]string {
	tokens := make(map[string]bool, len(chapterTokens))
	for _, token := range chapterTokens {
		tokens[textnorm.Normalize(token)] = true
	}

	stats := make(map[int]*columnStats)
	sampled := 0
	for _, row := range rows {
		if sampled >= inferSampleRows {
			break
		}
		positional := false
		for key, cell := range row {
			index, ok := positionalIndex(key)
			if !ok {
				continue
			}
			positional = true
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			st := stats[index]
			if st == nil {
				st = &columnStats{}
				stats[index] = st
			}
			st.nonEmpty++
			switch {
			case tokens[textnorm.Normalize(cell)]:
				st.chapters++
			case dateParses(cell):
				st.dates++
			case quantityParses(cell):
				st.numbers++
			default:
				st.words++
			}
		}
		if positional {
			sampled++
		}
	}
	if len(stats) == 0 {
		return map[int]string{}
	}

	indexes := make([]int, 0, len(stats))
	for index := range stats {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	positions := make(map[int]string)
	taken := make(map[int]bool)

	pick := func(role string, score func(*columnStats) int, majority bool) {
		best, bestScore := -1, 0
		for _, index := range indexes {
			if taken[index] {
				continue
			}
			st := stats[index]
			s := score(st)
			if s == 0 || (majority && s*2 <= st.nonEmpty) {
				continue
			}
			if s > bestScore {
				best, bestScore = index, s
			}
		}
		if best >= 0 {
			positions[best] = role
			taken[best] = true
		}
	}

	pick(RoleChapter, func(st *columnStats) int { return st.chapters }, false)
	pick(RoleDate, func(st *columnStats) int { return st.dates }, true)
	pick(RoleQuantity, func(st *columnStats) int { return st.numbers }, true)

	for _, index := range indexes {
		st := stats[index]
		if !taken[index] && st.words*2 > st.nonEmpty {
			positions[index] = RoleResource
			break
		}
	}
	return positions
}

func positionalIndex(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "col_")
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(rest)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

func dateParses(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

func quantityParses(s string) bool {
	_, err := ParseQuantity(s)
	return err == nil
}
