package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockChatAPI is a mock implementation of ChatAPI
type MockChatAPI struct {
	mock.Mock
}

func (m *MockChatAPI) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestNormalizer_NormalizeFood(t *testing.T) {
	t.Run("parses JSON array", func(t *testing.T) {
		api := new(MockChatAPI)
		api.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(chatResponse(`[{"item":"egg","quantity":2,"unit":"piece","total_kcal":155,"protein":13.0,"carbs":1.1,"fat":11.0}]`), nil)

		n := NewNormalizerWithAPI(api, "", zap.NewNop())
		items, err := n.NormalizeFood(context.Background(), "2 eggs", "")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "egg", items[0].Item)
		assert.InDelta(t, 155.0, float64(items[0].TotalKcal), 0.001)
	})

	t.Run("extracts array from fenced output", func(t *testing.T) {
		api := new(MockChatAPI)
		api.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(chatResponse("Here is the breakdown:\n```json\n[{\"item\":\"rice\",\"total_kcal\":130}]\n```"), nil)

		n := NewNormalizerWithAPI(api, "", zap.NewNop())
		items, err := n.NormalizeFood(context.Background(), "rice", "")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "rice", items[0].Item)
	})

	t.Run("malformed output yields empty result", func(t *testing.T) {
		api := new(MockChatAPI)
		api.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(chatResponse("I cannot help with that."), nil)

		n := NewNormalizerWithAPI(api, "", zap.NewNop())
		items, err := n.NormalizeFood(context.Background(), "eggs", "")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("call failure is an error", func(t *testing.T) {
		api := new(MockChatAPI)
		api.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(openai.ChatCompletionResponse{}, errors.New("401 unauthorized"))

		n := NewNormalizerWithAPI(api, "", zap.NewNop())
		_, err := n.NormalizeFood(context.Background(), "eggs", "")
		assert.Error(t, err)
	})

	t.Run("knowledge context is attached to the prompt", func(t *testing.T) {
		api := new(MockChatAPI)
		api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
			return len(req.Messages) == 2 &&
				assert.ObjectsAreEqual(openai.ChatMessageRoleUser, req.Messages[1].Role) &&
				len(req.Messages[1].Content) > 0
		})).Return(chatResponse(`[]`), nil)

		n := NewNormalizerWithAPI(api, "", zap.NewNop())
		_, err := n.NormalizeFood(context.Background(), "protein bar", "- Note #1: protein bar, 1 pcs, 220 kcal")
		require.NoError(t, err)

		req := api.Calls[0].Arguments.Get(1).(openai.ChatCompletionRequest)
		assert.Contains(t, req.Messages[1].Content, "- Note #1: protein bar, 1 pcs, 220 kcal")
	})

	t.Run("legacy kcal field accepted", func(t *testing.T) {
		api := new(MockChatAPI)
		api.On("CreateChatCompletion", mock.Anything, mock.Anything).
			Return(chatResponse(`[{"item":"toast","kcal":80}]`), nil)

		n := NewNormalizerWithAPI(api, "", zap.NewNop())
		items, err := n.NormalizeFood(context.Background(), "toast", "")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.InDelta(t, 80.0, float64(items[0].TotalKcal), 0.001)
	})
}
