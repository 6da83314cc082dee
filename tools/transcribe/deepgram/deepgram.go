package deepgram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	listenv1rest "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/rest"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/pkg/client/listen"
)

// Transcriber transcribes prerecorded audio through Deepgram's REST API.
type Transcriber struct {
	ApiKey string
	Model  string
}

func (t Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	model := t.Model
	if model == "" {
		model = "nova-2"
	}

	c := listen.NewREST(t.ApiKey, &interfaces.ClientOptions{})
	dg := listenv1rest.New(c)

	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       model,
		SmartFormat: true,
	}

	res, err := dg.FromStream(ctx, bytes.NewReader(audio), options)
	if err != nil {
		return "", fmt.Errorf("deepgram transcription: %w", err)
	}

	if res == nil || len(res.Results.Channels) == 0 || len(res.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("deepgram returned no transcription alternatives")
	}
	return strings.TrimSpace(res.Results.Channels[0].Alternatives[0].Transcript), nil
}
