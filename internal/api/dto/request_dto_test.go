package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrasoft/command-centre/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestRequestPayloadToDomain(t *testing.T) {
	payload := RequestPayload{
		ChannelID:   100,
		Title:       strPtr("Launch teaser"),
		RequestType: strPtr("reel"),
		Status:      strPtr("in queue"),
		PostingDate: strPtr("2025-01-25"),
	}

	request, err := payload.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, int64(100), request.ChannelID)
	assert.Equal(t, domain.RequestTypeReel, *request.RequestType)
	assert.Equal(t, domain.RequestStatusInQueue, *request.Status)
	assert.Equal(t, time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC), *request.PostingDate)
}

func TestRequestPayloadAcceptsBareChannel(t *testing.T) {
	// The bot opens a channel before any content exists; only the
	// channel and message IDs are known at that point.
	request, err := (&RequestPayload{ChannelID: 100, MainMessageID: 200}).ToDomain()
	require.NoError(t, err)
	assert.Nil(t, request.Title)
	assert.Nil(t, request.RequestType)
	assert.Nil(t, request.Status)
	assert.Nil(t, request.RequesterID)
}

func TestRequestPayloadDescriptionLength(t *testing.T) {
	atLimit := strings.Repeat("a", 4000)
	_, err := (&RequestPayload{Description: &atLimit}).ToDomain()
	assert.NoError(t, err)

	overLimit := strings.Repeat("a", 4001)
	_, err = (&RequestPayload{Description: &overLimit}).ToDomain()
	assert.Error(t, err)
}

func TestRequestPayloadRejectsUnknownEnums(t *testing.T) {
	_, err := (&RequestPayload{RequestType: strPtr("story")}).ToDomain()
	assert.Error(t, err)

	_, err = (&RequestPayload{Status: strPtr("half done")}).ToDomain()
	assert.Error(t, err)

	_, err = (&RequestPayload{PostingDate: strPtr("25/01/2025")}).ToDomain()
	assert.Error(t, err)
}

func TestFromRequestRendersDisplayNames(t *testing.T) {
	reqType := domain.RequestTypePost
	status := domain.RequestStatusAwaitingPosting
	posting := time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC)

	response := FromRequest(&domain.Request{
		ChannelID:   100,
		RequestType: &reqType,
		Status:      &status,
		PostingDate: &posting,
	})

	require.NotNil(t, response.RequestType)
	assert.Equal(t, "post", *response.RequestType)
	require.NotNil(t, response.Status)
	assert.Equal(t, "awaiting posting", *response.Status)
	require.NotNil(t, response.PostingDate)
	assert.Equal(t, "2025-01-25", *response.PostingDate)
}

func TestFromRequestOmitsUnsetOptionals(t *testing.T) {
	response := FromRequest(&domain.Request{ChannelID: 100})

	assert.Nil(t, response.RequestType)
	assert.Nil(t, response.Status)
	assert.Nil(t, response.PostingDate)
}
