package handler

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/halvard/cms/internal/model"
	"github.com/halvard/cms/internal/storage"
)

// handlerMockDB implements core.DB for handler tests.
type handlerMockDB struct {
	mock.Mock
}

func (m *handlerMockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *handlerMockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *handlerMockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// mockRow implements pgx.Row.
type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

func errRow(err error) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error { return err }}
}

// mockRows implements pgx.Rows, iterating one scan function per row.
type mockRows struct {
	callIndex int
	scanFuncs []func(dest ...any) error
}

func newMockRows(scanFuncs ...func(dest ...any) error) *mockRows {
	return &mockRows{scanFuncs: scanFuncs}
}

func (m *mockRows) Next() bool {
	return m.callIndex < len(m.scanFuncs)
}

func (m *mockRows) Scan(dest ...any) error {
	fn := m.scanFuncs[m.callIndex]
	m.callIndex++
	return fn(dest...)
}

func (m *mockRows) Err() error                                   { return nil }
func (m *mockRows) Close()                                       {}
func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

// scanTestDomain fills scan destinations in domainColumns order.
func scanTestDomain(name string, locked bool, now time.Time) func(dest ...any) error {
	return func(dest ...any) error {
		*(dest[0].(*string)) = "id-" + name
		*(dest[1].(*string)) = name
		*(dest[2].(*string)) = "Godaddy"
		*(dest[3].(*time.Time)) = now.AddDate(1, 0, 0)
		*(dest[4].(*bool)) = locked
		*(dest[5].(*bool)) = true
		*(dest[6].(*string)) = model.StatusActive
		*(dest[7].(*[]string)) = []string{"ns1.example.net"}
		*(dest[8].(**time.Time)) = nil
		*(dest[9].(**time.Time)) = nil
		*(dest[10].(*time.Time)) = now
		*(dest[11].(*time.Time)) = now
		return nil
	}
}

// mockWorkflowStarter implements WorkflowStarter.
type mockWorkflowStarter struct {
	mock.Mock
}

func (m *mockWorkflowStarter) ExecuteWorkflow(ctx context.Context, options temporalclient.StartWorkflowOptions, workflow interface{}, args ...interface{}) (temporalclient.WorkflowRun, error) {
	called := m.Called(ctx, options, workflow, args)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).(temporalclient.WorkflowRun), called.Error(1)
}

// fakeRun implements temporalclient.WorkflowRun.
type fakeRun struct {
	id    string
	runID string
}

func (r *fakeRun) GetID() string    { return r.id }
func (r *fakeRun) GetRunID() string { return r.runID }
func (r *fakeRun) Get(ctx context.Context, valuePtr interface{}) error {
	return nil
}
func (r *fakeRun) GetWithOptions(ctx context.Context, valuePtr interface{}, options temporalclient.WorkflowRunGetOptions) error {
	return nil
}

// mockPresigner implements Presigner.
type mockPresigner struct {
	mock.Mock
}

func (m *mockPresigner) PresignUpload(ctx context.Context, filename, contentType string) (*storage.Upload, error) {
	args := m.Called(ctx, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Upload), args.Error(1)
}

func (m *mockPresigner) PresignDownload(ctx context.Context, key string) (*storage.Upload, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Upload), args.Error(1)
}
