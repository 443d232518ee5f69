package mocks

import (
	"context"
	"database/sql"
)

// FailingConnProvider never hands out a connection
type FailingConnProvider struct {
	Err   error
	Calls int
}

func (f *FailingConnProvider) Conn(context.Context) (*sql.Conn, error) {
	f.Calls++
	return nil, f.Err
}
