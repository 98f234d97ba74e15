package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perguntaquedoi/api/models"
	"github.com/perguntaquedoi/api/store"
)

func reactionRouter(st *store.Store, userID string) http.Handler {
	r := newTestRouter()
	c := NewReactionController(st)
	r.POST("/responses/:id/reactions", asUser(userID), c.Create)
	return r
}

func TestCreateReaction(t *testing.T) {
	st := newTestStore(t)
	saved, err := st.SaveResponse(context.Background(), models.Response{
		QuestionID: "q1", UserID: "author", Content: "conteudo",
	})
	require.NoError(t, err)

	r := reactionRouter(st, "u2")
	w := postJSON(t, r, "/responses/"+saved.ID+"/reactions", map[string]string{
		"type": models.ReactionIdentificado,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Repeats append; nothing is deduplicated.
	w = postJSON(t, r, "/responses/"+saved.ID+"/reactions", map[string]string{
		"type": models.ReactionIdentificado,
	})
	require.Equal(t, http.StatusOK, w.Code)

	board, err := st.Responses(context.Background(), "q1", "author")
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.EqualValues(t, 2, board[0].Reactions.Identificado)
}

func TestCreateReactionInvalidType(t *testing.T) {
	st := newTestStore(t)
	saved, err := st.SaveResponse(context.Background(), models.Response{
		QuestionID: "q1", UserID: "author", Content: "conteudo",
	})
	require.NoError(t, err)

	r := reactionRouter(st, "u2")
	w := postJSON(t, r, "/responses/"+saved.ID+"/reactions", map[string]string{"type": "curtir"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReactionMissingResponse(t *testing.T) {
	st := newTestStore(t)
	r := reactionRouter(st, "u2")

	w := postJSON(t, r, "/responses/missing/reactions", map[string]string{
		"type": models.ReactionOrando,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
