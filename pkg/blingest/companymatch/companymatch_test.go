package companymatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/affreight/shipengine/pkg/domain"
)

func companies(names ...string) []domain.Company {
	out := make([]domain.Company, len(names))
	for i, n := range names {
		out[i] = domain.Company{ID: n, Name: n}
	}
	return out
}

func TestFindMatches_ExactMatch(t *testing.T) {
	matches := FindMatches("Acme Logistics Sdn Bhd", companies("Acme Logistics Sdn Bhd", "Globex Freight"))
	assert.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].Score)
}

func TestFindMatches_SubstringContainment(t *testing.T) {
	matches := FindMatches("Acme Logistics Sdn Bhd Malaysia", companies("Acme Logistics Sdn Bhd"))
	assert.Len(t, matches, 1)
	assert.Equal(t, 0.8, matches[0].Score)
}

func TestFindMatches_WordOverlap(t *testing.T) {
	matches := FindMatches("Acme Logistics Sdn Bhd", companies("Acme Logistics Holdings"))
	assert.Len(t, matches, 1)
	assert.Greater(t, matches[0].Score, 0.5)
	assert.Less(t, matches[0].Score, 0.8)
}

func TestFindMatches_SingleWordOverlapBelowThreshold(t *testing.T) {
	matches := FindMatches("Acme Shipping Lines", companies("Globex Shipping Corp"))
	assert.Empty(t, matches, "only one shared word should not clear the match threshold")
}

func TestFindMatches_TopThreeDescending(t *testing.T) {
	matches := FindMatches("Acme Logistics Sdn Bhd", companies(
		"Acme Logistics Sdn Bhd",
		"Acme Logistics Sdn Bhd Malaysia",
		"Acme Logistics Holdings",
		"Acme Freight Logistics Group",
		"Totally Unrelated Corp",
	))
	assert.LessOrEqual(t, len(matches), 3)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestFindMatches_EmptyQuery(t *testing.T) {
	assert.Nil(t, FindMatches("", companies("Acme Logistics")))
}

func TestFindMatches_PunctuationIgnored(t *testing.T) {
	matches := FindMatches("Acme Logistics, Sdn. Bhd.", companies("acme logistics sdn bhd"))
	assert.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].Score)
}
