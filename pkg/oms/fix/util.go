package fixgateway

import (
	"errors"

	"github.com/quickfixgo/quickfix"
)

var errSessionNotFound = errors.New("no session for clOrdID")

func (s *FixGateway) AddRequestToMap(clOrdID string, sessionID *quickfix.SessionID) {
	s.requestMapping.Store(clOrdID, sessionID)
}

func (s *FixGateway) GetSessionByClOrdID(clOrdID string) (*quickfix.SessionID, error) {
	v, ok := s.requestMapping.Load(clOrdID)
	if !ok {
		return nil, errSessionNotFound
	}
	return v.(*quickfix.SessionID), nil
}
