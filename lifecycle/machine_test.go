package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
		want  State
	}{
		{"bootstrap resolves to unanswered", Bootstrapping, EventNoAnswer, Unanswered},
		{"bootstrap finds prior answer", Bootstrapping, EventAnswerFound, AnsweredLocal},
		{"save commits", Unanswered, EventSaved, AnsweredLocal},
		{"duplicate save converges with save", Unanswered, EventDuplicateSave, AnsweredLocal},
		{"board load unlocks the board", AnsweredLocal, EventBoardLoaded, AnsweredBoardVisible},
		{"board failure stays answered local", AnsweredLocal, EventBoardUnavailable, AnsweredLocal},
		{"board visible is terminal for the day", AnsweredBoardVisible, EventBoardLoaded, AnsweredBoardVisible},
		{"auth rejection from bootstrap", Bootstrapping, EventAuthRejected, AuthDisabled},
		{"auth rejection from any state", AnsweredLocal, EventAuthRejected, AuthDisabled},
		{"manual retry re-enters bootstrap", AuthDisabled, EventRetry, Bootstrapping},
		{"auth disabled ignores saves", AuthDisabled, EventSaved, AuthDisabled},
		{"unknown combination is a no-op", Unanswered, EventBoardLoaded, Unanswered},
		{"stray identity event is a no-op", AnsweredLocal, EventIdentityReady, AnsweredLocal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.state, tt.event))
		})
	}
}

func TestNextDuplicateSaveConvergence(t *testing.T) {
	// Whichever of the two outcomes the insert produces, the session lands
	// in the same state.
	saved := Next(Unanswered, EventSaved)
	duplicate := Next(Unanswered, EventDuplicateSave)
	assert.Equal(t, saved, duplicate)
}
