package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/Shizuku-climate-heatmap/services/api/climate"
)

const sampleCSV = `dt,AverageTemperature,AverageTemperatureUncertainty,City,Country,Latitude,Longitude
1849-01-01,26.704,1.435,Abidjan,Côte D'Ivoire,5.63N,3.23W
1849-02-01,27.434,1.362,Abidjan,Côte D'Ivoire,5.63N,3.23W
1849-03-01,,,Abidjan,Côte D'Ivoire,5.63N,3.23W
2013-09-01,18.015,0.347,Xian,China,34.56N,108.97E
`

func TestParseCSV(t *testing.T) {
	res, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Zero(t, res.Skipped)
	require.Len(t, res.Records, 4)

	first := res.Records[0]
	assert.Equal(t, time.Date(1849, time.January, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "Abidjan", first.City)
	assert.Equal(t, "Côte D'Ivoire", first.Country)
	require.NotNil(t, first.AverageTemperature)
	assert.Equal(t, 26.704, *first.AverageTemperature)

	assert.Nil(t, res.Records[2].AverageTemperature, "empty temperature stays missing")
	assert.Equal(t, "China", res.Records[3].Country)
}

func TestParseCSV_ColumnOrderAndDateFormats(t *testing.T) {
	in := "\ufeffCity,Country,AverageTemperature,dt\n" +
		"Lima,Peru,22.5,1990-01\n" +
		"Lima,Peru,NaN,1990-02-01\n" +
		"Lima,Peru,21.0,1990-03-01T00:00:00Z\n"

	res, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	assert.Equal(t, time.January, res.Records[0].Date.Month())
	assert.Equal(t, 22.5, *res.Records[0].AverageTemperature)
	assert.Nil(t, res.Records[1].AverageTemperature, "NaN is a missing reading")
	assert.Equal(t, time.March, res.Records[2].Date.Month())
}

func TestParseCSV_InfinityIsMissing(t *testing.T) {
	in := "dt,AverageTemperature,Country,City\n" +
		"2000-01-01,10.0,X,A\n" +
		"2000-02-01,Inf,X,A\n" +
		"2000-03-01,-Infinity,X,A\n" +
		"2000-04-01,+Inf,X,A\n"

	res, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Records, 4)
	for _, r := range res.Records[1:] {
		assert.Nil(t, r.AverageTemperature, r.Date.Format("2006-01"))
	}

	lo, hi, ok := climate.NewDataset(res.Records).TemperatureBounds()
	require.True(t, ok)
	assert.Equal(t, 10.0, lo)
	assert.Equal(t, 10.0, hi)
}

func TestParseCSV_SkipsMalformedRows(t *testing.T) {
	in := "dt,AverageTemperature,Country,City\n" +
		"not-a-date,1.0,Peru,Lima\n" +
		"1990-01-01,warm,Peru,Lima\n" +
		"1990-01-01,1.0\n" +
		"1990-02-01,2.0,Peru,Lima\n"

	res, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 2.0, *res.Records[0].AverageTemperature)
}

func TestParseCSV_MissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("dt,City\n1990-01-01,Lima\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AverageTemperature")
	assert.Contains(t, err.Error(), "Country")
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.EqualError(t, err, "csv is empty")
}
