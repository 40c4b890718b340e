package data

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foolsim/internal/model"
)

func TestParseRecommendations(t *testing.T) {
	in := `date,symbol,name,recommendation
01/02/2024,aapl,Apple Inc.,Buy
02/15/24,MSFT,Microsoft,SELL
03/01/2024,NVDA,NVIDIA,hold
04/10/2024,GOOG,Alphabet,Reduce
`
	recs, err := ParseRecommendations(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), recs[0].Date)
	assert.Equal(t, "AAPL", recs[0].Symbol)
	assert.Equal(t, "Apple Inc.", recs[0].Name)
	assert.Equal(t, model.ActionBuy, recs[0].Action)

	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), recs[1].Date)
	assert.Equal(t, model.ActionSell, recs[1].Action)
	assert.Equal(t, model.ActionHold, recs[2].Action)
	assert.Equal(t, model.ActionReduce, recs[3].Action)
}

func TestParseRecommendationsHeaderOrder(t *testing.T) {
	in := `recommendation,name,date,symbol,extra
BUY,Apple Inc.,01/02/2024,AAPL,ignored
`
	recs, err := ParseRecommendations(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "AAPL", recs[0].Symbol)
	assert.Equal(t, model.ActionBuy, recs[0].Action)
}

func TestParseRecommendationsMissingColumn(t *testing.T) {
	in := `date,symbol,recommendation
01/02/2024,AAPL,BUY
`
	_, err := ParseRecommendations(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "name"`)
}

func TestParseRecommendationsBadDate(t *testing.T) {
	in := `date,symbol,name,recommendation
2024-01-02,AAPL,Apple Inc.,BUY
`
	_, err := ParseRecommendations(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	var dfe *model.DateFormatError
	assert.ErrorAs(t, err, &dfe)
}

func TestParseRecommendationsUnknownAction(t *testing.T) {
	in := `date,symbol,name,recommendation
01/02/2024,AAPL,Apple Inc.,BUY
01/03/2024,MSFT,Microsoft,SHORT
`
	_, err := ParseRecommendations(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	var uae *model.UnknownActionError
	assert.ErrorAs(t, err, &uae)
}
