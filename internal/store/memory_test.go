package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSeedsDemoUser(t *testing.T) {
	s := NewMemoryStore()

	user, err := s.GetUser(DemoUserID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "john_doe", user.Username)

	byName, err := s.GetUserByUsername("john_doe")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, DemoUserID, byName.ID)

	byEmail, err := s.GetUserByEmail("john.doe@university.edu")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
}

func TestMemoryStoreLookupMissingReturnsNil(t *testing.T) {
	s := NewMemoryStore()

	user, err := s.GetUser("nope")
	require.NoError(t, err)
	assert.Nil(t, user)

	session, err := s.GetSession("nope")
	require.NoError(t, err)
	assert.Nil(t, session)

	file, err := s.GetFile("nope")
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestMemoryStoreCreateAssignsIDAndTimestamp(t *testing.T) {
	s := NewMemoryStore()

	session, err := s.CreateSession(DemoUserID, "Biology 101")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.WithinDuration(t, time.Now(), session.CreatedAt, time.Second)

	other, err := s.CreateSession(DemoUserID, "Biology 101")
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, other.ID)
}

func TestMemoryStoreFileStatusUpdate(t *testing.T) {
	s := NewMemoryStore()
	session, err := s.CreateSession(DemoUserID, "Test")
	require.NoError(t, err)

	file, err := s.CreateFile(session.ID, "123_deck.pptx", "deck.pptx", "application/vnd.ms-powerpoint", 1024)
	require.NoError(t, err)
	assert.Equal(t, FileStatusUploaded, file.Status)

	updated, err := s.UpdateFileStatus(file.ID, FileStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, FileStatusProcessing, updated.Status)

	_, err = s.UpdateFileStatus("missing-id", FileStatusError)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSessionsWithStats(t *testing.T) {
	s := NewMemoryStore()
	session, err := s.CreateSession(DemoUserID, "Stats")
	require.NoError(t, err)

	_, err = s.CreateFile(session.ID, "a.pdf", "a.pdf", "application/pdf", 10)
	require.NoError(t, err)
	_, err = s.CreateFile(session.ID, "b.pdf", "b.pdf", "application/pdf", 10)
	require.NoError(t, err)
	_, err = s.CreateNote(session.ID, "<h1>notes</h1>", nil)
	require.NoError(t, err)

	questions := make([]QuizQuestion, 6)
	for i := range questions {
		questions[i] = QuizQuestion{
			Question:      "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 1,
		}
	}
	_, err = s.CreateQuiz(session.ID, "Quiz", questions)
	require.NoError(t, err)

	// Unrelated session must not leak into the counts.
	other, err := s.CreateSession(DemoUserID, "Other")
	require.NoError(t, err)
	_, err = s.CreateFile(other.ID, "c.pdf", "c.pdf", "application/pdf", 10)
	require.NoError(t, err)

	sessions, err := s.GetSessionsWithStats(DemoUserID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	var stats *SessionWithStats
	for i := range sessions {
		if sessions[i].ID == session.ID {
			stats = &sessions[i]
		}
	}
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.FilesCount)
	assert.Equal(t, 1, stats.NotesCount)
	assert.Equal(t, 6, stats.QuizQuestionsCount)
}

func TestMemoryStoreSessionsSortedNewestFirst(t *testing.T) {
	s := NewMemoryStore()

	first, err := s.CreateSession(DemoUserID, "first")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := s.CreateSession(DemoUserID, "second")
	require.NoError(t, err)

	sessions, err := s.GetSessionsWithStats(DemoUserID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)
}

func TestMemoryStoreQuizRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	session, err := s.CreateSession(DemoUserID, "RT")
	require.NoError(t, err)

	questions := []QuizQuestion{
		{ID: "question_1", Question: "What is 2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: 1, Explanation: "Basic arithmetic"},
		{ID: "question_2", Question: "Capital of France?", Options: []string{"Paris", "Rome", "Berlin", "Madrid"}, CorrectAnswer: 0, Explanation: "Geography"},
	}
	created, err := s.CreateQuiz(session.ID, "Round Trip", questions)
	require.NoError(t, err)

	quizzes, err := s.GetQuizzesBySessionID(session.ID)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, created.ID, quizzes[0].ID)
	assert.Equal(t, questions, quizzes[0].Questions)
}
