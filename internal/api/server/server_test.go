package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-waqas88/messenger/internal/api/facade"
	"github.com/m-waqas88/messenger/internal/api/service"
	"github.com/m-waqas88/messenger/internal/api/utility"
	"github.com/m-waqas88/messenger/internal/common"
	"github.com/m-waqas88/messenger/internal/domain"
)

// plain-text tokens are 26 bytes of base32
const testToken = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

type fakeUserService struct {
	user      *domain.User
	recipient *domain.User
}

func (f *fakeUserService) RegisterUser(context.Context, *domain.UserRegister) (string, error) {
	return f.user.ID, nil
}

func (f *fakeUserService) GetByUniqueField(_ context.Context, fieldValue string) (*domain.User, error) {
	switch fieldValue {
	case f.user.ID, f.user.Username:
		return f.user, nil
	case f.recipient.ID:
		return f.recipient, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakeUserService) GetForToken(_ context.Context, _ string, plainToken string) (*domain.User, error) {
	if plainToken == testToken {
		return f.user, nil
	}
	ev := domain.NewErrValidation()
	ev.AddError("token", "invalid")
	return nil, ev
}

func (f *fakeUserService) AuthenticateUser(context.Context, *domain.UserAuth) (string, error) {
	return f.user.ID, nil
}

type fakeTokenService struct{}

func (fakeTokenService) GenerateToken(context.Context, string, string) (string, error) {
	return testToken, nil
}

func (fakeTokenService) DeleteAllForUser(context.Context, string, string) error { return nil }

type fakeMessageService struct{}

func (fakeMessageService) PopulateMessage(m domain.MessageSent, sndr *domain.User, conversationID int64) *domain.Message {
	return &domain.Message{ID: 1, ConversationID: conversationID, SenderID: sndr.ID, Body: m.Text, CreatedAt: time.Now()}
}

func (fakeMessageService) SaveMessage(context.Context, *domain.Message) error { return nil }

type fakeConversationService struct {
	views       []*domain.ConversationView
	markReadErr error
	markReadCmd *domain.MarkConversationRead
}

func (f *fakeConversationService) GetConversationViews(context.Context) ([]*domain.ConversationView, error) {
	return f.views, nil
}

func (f *fakeConversationService) MarkConversationRead(_ context.Context, cmd *domain.MarkConversationRead) error {
	f.markReadCmd = cmd
	return f.markReadErr
}

func (f *fakeConversationService) FindOrCreateConversation(context.Context, string, string) (int64, error) {
	return 7, nil
}

type fakePresence struct {
	mu     sync.Mutex
	online map[string]bool
}

func newFakePresence() *fakePresence {
	return &fakePresence{online: make(map[string]bool)}
}

func (f *fakePresence) Online(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online[userID], nil
}

func (f *fakePresence) SetOnline(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online[userID] = true
	return nil
}

func (f *fakePresence) SetOffline(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.online, userID)
	return nil
}

type nopTX struct{}

func (nopTX) RunInTX(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestServer(t *testing.T, cs *fakeConversationService, p *fakePresence) (*Server, *fakeUserService) {
	t.Helper()
	us := &fakeUserService{
		user: &domain.User{
			ID:       "11111111-1111-4111-8111-111111111111",
			Username: "bob",
		},
		recipient: &domain.User{
			ID:       "22222222-2222-4222-8222-222222222222",
			Username: "alice",
		},
	}
	svc := service.New(us, fakeTokenService{}, fakeMessageService{}, cs)
	f := facade.New(
		facade.NewUserFacade(svc),
		facade.NewTokenFacade(svc, nopTX{}),
		facade.NewMessageFacade(svc, nopTX{}),
		facade.NewConversationFacade(svc, nopTX{}, p),
	)
	bt := common.NewBackgroundTask()
	t.Cleanup(func() { bt.Shutdown(time.Second) })
	cfg := &utility.Config{Port: 8080, ENV: "test"}
	return NewServer(cfg, bt, f, p), us
}

func do(h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rdr)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func Test_GetConversationsHandler(t *testing.T) {
	latest := "see you then"
	var watermark int64 = 11
	cs := &fakeConversationService{views: []*domain.ConversationView{
		{
			ID:                           3,
			Messages:                     []*domain.MessageView{},
			LatestMessageText:            &latest,
			OtherUser:                    &domain.OtherUserView{ID: "other-id", Username: "alice"},
			UnreadMessages:               2,
			LastMessageIDReadByRecipient: &watermark,
		},
		{
			ID:        4,
			Messages:  []*domain.MessageView{},
			OtherUser: &domain.OtherUserView{ID: "third-id", Username: "carol"},
		},
	}}
	s, _ := newTestServer(t, cs, &fakePresence{online: map[string]bool{"other-id": true}})
	h := s.routes()

	w := do(h, http.MethodGet, "/v1/conversations", testToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	// the response is a bare array, no envelope
	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.EqualValues(t, 3, got[0]["id"])
	assert.EqualValues(t, 2, got[0]["unreadMessages"])
	assert.Equal(t, "see you then", got[0]["latestMessageText"])
	assert.Contains(t, got[0], "lastMessgaeIdReadByRecipient")
	other := got[0]["otherUser"].(map[string]any)
	assert.Equal(t, "alice", other["username"])
	assert.Equal(t, true, other["online"])

	// an empty conversation carries no preview key at all, but the
	// recipient-read watermark is an explicit null
	assert.NotContains(t, got[1], "latestMessageText")
	assert.Contains(t, got[1], "lastMessgaeIdReadByRecipient")
	assert.Nil(t, got[1]["lastMessgaeIdReadByRecipient"])
	assert.Equal(t, false, got[1]["otherUser"].(map[string]any)["online"])
}

func Test_GetConversationsHandler_RequiresAuth(t *testing.T) {
	s, _ := newTestServer(t, &fakeConversationService{}, newFakePresence())
	h := s.routes()

	w := do(h, http.MethodGet, "/v1/conversations", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(h, http.MethodGet, "/v1/conversations", "wrong-token-of-right-lengt", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func Test_MarkConversationReadHandler(t *testing.T) {
	cs := &fakeConversationService{}
	s, _ := newTestServer(t, cs, newFakePresence())
	h := s.routes()

	w := do(h, http.MethodPut, "/v1/conversations/read", testToken,
		`{"conversationId": 3, "lastReadMessageId": 14}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, cs.markReadCmd)
	assert.EqualValues(t, 3, cs.markReadCmd.ConversationID)
	assert.EqualValues(t, 14, cs.markReadCmd.LastReadMessageID)
}

func Test_MarkConversationReadHandler_Failures(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		body       string
		wantStatus int
	}{
		{"not a participant", domain.ErrNotParticipant, `{"conversationId": 3, "lastReadMessageId": 14}`, http.StatusForbidden},
		{"unknown conversation", domain.ErrRecordNotFound, `{"conversationId": 9, "lastReadMessageId": 14}`, http.StatusInternalServerError},
		{"malformed body", nil, `{"conversationId": `, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := &fakeConversationService{markReadErr: tt.serviceErr}
			s, _ := newTestServer(t, cs, newFakePresence())
			w := do(s.routes(), http.MethodPut, "/v1/conversations/read", testToken, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func Test_CreateMessageHandler(t *testing.T) {
	s, _ := newTestServer(t, &fakeConversationService{}, newFakePresence())
	h := s.routes()

	w := do(h, http.MethodPost, "/v1/messages", testToken,
		`{"recipientId": "22222222-2222-4222-8222-222222222222", "text": "hello"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	var got struct {
		Message struct {
			ID     int64  `json:"id"`
			Text   string `json:"text"`
			Read   bool   `json:"read"`
			ConvID int64  `json:"conversationId"`
		} `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "hello", got.Message.Text)
	assert.EqualValues(t, 7, got.Message.ConvID)
	assert.False(t, got.Message.Read)
}

func Test_CreateMessageHandler_Validation(t *testing.T) {
	s, us := newTestServer(t, &fakeConversationService{}, newFakePresence())
	h := s.routes()

	// recipient is the sender
	w := do(h, http.MethodPost, "/v1/messages", testToken,
		`{"recipientId": "`+us.user.ID+`", "text": "hello"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// recipient does not exist
	w = do(h, http.MethodPost, "/v1/messages", testToken,
		`{"recipientId": "33333333-3333-4333-8333-333333333333", "text": "hello"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// empty body text
	w = do(h, http.MethodPost, "/v1/messages", testToken,
		`{"recipientId": "22222222-2222-4222-8222-222222222222", "text": ""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// malformed JSON
	w = do(h, http.MethodPost, "/v1/messages", testToken, `{"recipientId`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_GenerateAuthTokenHandler(t *testing.T) {
	s, _ := newTestServer(t, &fakeConversationService{}, newFakePresence())
	h := s.routes()

	w := do(h, http.MethodPost, "/v1/tokens/auth", "",
		`{"username": "bob", "password": "sup3r-secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, testToken, got.Token)
}

func Test_RegisterUserHandler(t *testing.T) {
	s, us := newTestServer(t, &fakeConversationService{}, newFakePresence())
	h := s.routes()

	w := do(h, http.MethodPost, "/v1/users", "",
		`{"username": "bob", "password": "sup3r-secret"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var got struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, us.user.ID, got.User.ID)
	assert.Equal(t, "bob", got.User.Username)
}

func Test_WebsocketSubscribeHandler_PresenceLifecycle(t *testing.T) {
	p := newFakePresence()
	s, us := newTestServer(t, &fakeConversationService{}, p)
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	hdr := http.Header{"Authorization": []string{"Bearer " + testToken}}

	conn, _, err := websocket.Dial(ctx, ts.URL+"/sub", &websocket.DialOptions{HTTPHeader: hdr})
	require.NoError(t, err)
	defer conn.CloseNow()

	// the registry marks the user online once the socket is accepted
	require.Eventually(t, func() bool {
		online, err := p.Online(context.Background(), us.user.ID)
		return err == nil && online
	}, 3*time.Second, 25*time.Millisecond)

	// a second concurrent subscription for the same user is rejected
	_, resp, err := websocket.Dial(ctx, ts.URL+"/sub", &websocket.DialOptions{HTTPHeader: hdr})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// closing the socket flips the user offline
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool {
		online, err := p.Online(context.Background(), us.user.ID)
		return err == nil && !online
	}, 3*time.Second, 25*time.Millisecond)

	// and frees the slot for a fresh subscription
	require.Eventually(t, func() bool {
		conn2, _, err := websocket.Dial(ctx, ts.URL+"/sub", &websocket.DialOptions{HTTPHeader: hdr})
		if err != nil {
			return false
		}
		conn2.Close(websocket.StatusNormalClosure, "")
		return true
	}, 3*time.Second, 25*time.Millisecond)
}

func Test_WebsocketSubscribeHandler_RequiresAuth(t *testing.T) {
	s, _ := newTestServer(t, &fakeConversationService{}, newFakePresence())
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, resp, err := websocket.Dial(ctx, ts.URL+"/sub", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
