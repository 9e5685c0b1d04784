package service

import (
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/util"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionService_CreateDefaults(t *testing.T) {
	repo := new(MockSessionStore)
	repo.On("Exists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Session")).Return(nil).Once()

	svc := NewSessionService(repo)
	session, err := svc.Create(context.Background(), CreateSessionRequest{})
	require.NoError(t, err)

	assert.True(t, util.IsValidSessionID(session.ID))
	assert.Equal(t, util.DefaultSessionCode, session.CodeContent)
	assert.Equal(t, util.LanguagePython, session.Language)
	repo.AssertExpectations(t)
}

func TestSessionService_CreateWithInitialCode(t *testing.T) {
	repo := new(MockSessionStore)
	repo.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Session) bool {
		return s.CodeContent == "x" && s.Language == util.LanguageJavaScript
	})).Return(nil)

	code := "x"
	session, err := NewSessionService(repo).Create(context.Background(), CreateSessionRequest{
		InitialCode: &code,
		Language:    util.LanguageJavaScript,
	})
	require.NoError(t, err)
	assert.Len(t, session.ID, util.SessionIDLength)
	assert.Equal(t, "x", session.CodeContent)
}

func TestSessionService_CreateKeepsEmptyInitialCode(t *testing.T) {
	repo := new(MockSessionStore)
	repo.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	empty := ""
	session, err := NewSessionService(repo).Create(context.Background(), CreateSessionRequest{InitialCode: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", session.CodeContent)
}

func TestSessionService_CreateRetriesOnCollision(t *testing.T) {
	repo := new(MockSessionStore)
	repo.On("Exists", mock.Anything, mock.Anything).Return(true, nil).Twice()
	repo.On("Exists", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := NewSessionService(repo).Create(context.Background(), CreateSessionRequest{})
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Exists", 3)
}

func TestSessionService_CreateGivesUp(t *testing.T) {
	repo := new(MockSessionStore)
	repo.On("Exists", mock.Anything, mock.Anything).Return(true, nil)

	_, err := NewSessionService(repo).Create(context.Background(), CreateSessionRequest{})
	assert.ErrorIs(t, err, util.ErrSessionIDExhausted)
	repo.AssertNumberOfCalls(t, "Exists", util.SessionIDMaxAttempts)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSessionService_ListPreview(t *testing.T) {
	repo := new(MockSessionStore)
	long := strings.Repeat("é", 150)
	repo.On("List", mock.Anything, DefaultSessionListLimit).Return([]model.Session{
		{ID: "abcdefgh", CodeContent: long, Language: util.LanguagePython},
		{ID: "hgfedcba", CodeContent: "short", Language: util.LanguageJavaScript},
	}, nil)

	list, err := NewSessionService(repo).List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, strings.Repeat("é", 100), list[0].CodePreview)
	assert.Equal(t, "short", list[1].CodePreview)
	assert.Equal(t, "hgfedcba", list[1].SessionID)
}
