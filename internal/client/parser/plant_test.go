package parser

import (
	"testing"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlant_OK(t *testing.T) {
	p, err := Decode([]byte(`{
		"_id": "p1",
		"name": "Tulsi",
		"scientific_name": "Ocimum tenuiflorum",
		"family": "Lamiaceae",
		"description": "Holy basil.",
		"dosha_karma": {"Kapha": "pacifies"},
		"dosage": {"powder": "3-6g"}
	}`))
	require.NoError(t, err)

	plant, err := ParsePlant(p)
	require.NoError(t, err)
	assert.Equal(t, "p1", plant.ID)
	assert.Equal(t, map[string]string{"Kapha": "pacifies"}, plant.DoshaKarma)
	assert.Equal(t, map[string]string{"powder": "3-6g"}, plant.Dosage)
	assert.Nil(t, plant.Morphology)
}

func TestParsePlant_MissingRequired(t *testing.T) {
	_, err := ParsePlant(Payload{"_id": "p1", "name": "Tulsi"})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestParsePlant_WrongType(t *testing.T) {
	_, err := ParsePlant(Payload{"_id": "p1", "name": []any{"x"}})
	require.ErrorIs(t, err, common.ErrMalformedResponse)
}

func TestParsePlantList_RejectsInvalidRecordsIndividually(t *testing.T) {
	p, err := Decode([]byte(`{
		"plants": [
			{"_id": "1", "name": "Tulsi", "scientific_name": "Ocimum tenuiflorum", "family": "Lamiaceae", "description": "d", "thumbnail": "AQI="},
			{"_id": "2", "name": "Broken"},
			"garbage",
			{"_id": "3", "name": "Neem", "scientific_name": "Azadirachta indica", "family": "Meliaceae", "description": "d"}
		],
		"total": 10,
		"skip": 0,
		"limit": 50
	}`))
	require.NoError(t, err)

	page, rejected, err := ParsePlantList(p)
	require.NoError(t, err)
	require.Len(t, page.Plants, 2)
	assert.Equal(t, "Tulsi", page.Plants[0].Name)
	assert.Equal(t, models.Image{1, 2}, page.Plants[0].Thumbnail)
	assert.Equal(t, "Neem", page.Plants[1].Name)
	assert.Equal(t, 10, page.Total)
	assert.Equal(t, 50, page.Limit)

	require.Len(t, rejected, 2)
	assert.ErrorIs(t, rejected[0], common.ErrValidation)
	assert.ErrorIs(t, rejected[1], common.ErrMalformedResponse)
}

func TestParsePlantList_MissingList(t *testing.T) {
	_, _, err := ParsePlantList(Payload{"total": 0})
	require.ErrorIs(t, err, common.ErrMalformedResponse)
}
