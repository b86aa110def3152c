package conversation

import (
	"github.com/abhisek/coursewalk/internal/qa"
)

// autoplayTickMsg is delivered when a scheduled autoplay delay elapses.
type autoplayTickMsg struct {
	Gen uint64
}

// answerMsg carries the result of an asynchronous question.
type answerMsg struct {
	Response qa.Response
	Err      error
}
