package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/halvard/cms/internal/activity"
	"github.com/halvard/cms/internal/sync"
)

type SyncDomainsWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *SyncDomainsWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterWorkflow(SyncDomainsWorkflow)
	// Registered so the test framework can resolve the activity name and
	// deserialize its result type; the call itself is mocked via OnActivity.
	s.env.RegisterActivity(&activity.Sync{})
}

func (s *SyncDomainsWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *SyncDomainsWorkflowTestSuite) TestSuccess() {
	s.env.OnActivity("RunFullSync", mock.Anything).
		Return(sync.FullSyncSummary{Deleted: 10, Imported: 12, Skipped: 1}, nil)

	s.env.ExecuteWorkflow(SyncDomainsWorkflow)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var summary sync.FullSyncSummary
	s.NoError(s.env.GetWorkflowResult(&summary))
	s.Equal(int64(10), summary.Deleted)
	s.Equal(12, summary.Imported)
	s.Equal(1, summary.Skipped)
}

func (s *SyncDomainsWorkflowTestSuite) TestActivityFailureNotRetried() {
	s.env.OnActivity("RunFullSync", mock.Anything).
		Return(sync.FullSyncSummary{}, errors.New("registrar unreachable")).Once()

	s.env.ExecuteWorkflow(SyncDomainsWorkflow)
	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func TestSyncDomainsWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(SyncDomainsWorkflowTestSuite))
}
