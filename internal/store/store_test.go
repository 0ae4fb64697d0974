package store

import (
	"io"
	"path/filepath"
	"testing"

	"acefreelance/internal/logging"
	"acefreelance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestMain(m *testing.M) {
	logging.Logg = logging.NewLogger("error", io.Discard)
	m.Run()
}

type StoreTestSuite struct {
	suite.Suite
	db Database
}

func (s *StoreTestSuite) SetupTest() {
	s.db = Database{}
	require.NoError(s.T(), s.db.NewStorage(":memory:"), "failed to create test database")
}

func (s *StoreTestSuite) TearDownTest() {
	if s.db.DB != nil {
		s.db.Close()
	}
}

func (s *StoreTestSuite) mustUser(email string) *model.User {
	user, err := s.db.CreateUser("Jane Wanjiku", email, "0712345678", "not-a-real-hash")
	require.NoError(s.T(), err)
	return user
}

func (s *StoreTestSuite) TestCatalogSeeded() {
	tasks, err := s.db.GetTasks()
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 3)
	assert.Equal(s.T(), "High School Biology Essay", tasks[0].Title)
	assert.Equal(s.T(), int64(800), tasks[0].Price)
	assert.Equal(s.T(), 2500, tasks[1].Words)
}

func (s *StoreTestSuite) TestCreateUserAndLookup() {
	user := s.mustUser("jane@example.com")
	assert.NotEmpty(s.T(), user.ID)
	assert.False(s.T(), user.Active)

	byEmail, err := s.db.GetUserByEmail("jane@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, byEmail.ID)

	byID, err := s.db.GetUserByID(user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Jane Wanjiku", byID.Name)

	_, err = s.db.GetUserByEmail("nobody@example.com")
	assert.ErrorIs(s.T(), err, model.ErrUserNotFound)
}

func (s *StoreTestSuite) TestDuplicateEmailLeavesUserListUnchanged() {
	s.mustUser("jane@example.com")

	_, err := s.db.CreateUser("Someone Else", "jane@example.com", "0700000000", "hash")
	assert.ErrorIs(s.T(), err, model.ErrDuplicateEmail)

	count, err := s.db.UserCount()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, count)
}

func (s *StoreTestSuite) TestEmailMatchIsCaseSensitive() {
	s.mustUser("jane@example.com")

	// the original compares emails with ===, so a case variant is a new user
	_, err := s.db.CreateUser("Jane Again", "Jane@example.com", "0700000000", "hash")
	assert.NoError(s.T(), err)
}

func (s *StoreTestSuite) TestActivateUserIsIdempotent() {
	user := s.mustUser("jane@example.com")

	require.NoError(s.T(), s.db.ActivateUser(user.ID))
	require.NoError(s.T(), s.db.ActivateUser(user.ID))

	got, err := s.db.GetUserByID(user.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), got.Active)

	assert.ErrorIs(s.T(), s.db.ActivateUser("no-such-user"), model.ErrUserNotFound)
}

func (s *StoreTestSuite) TestAwardTask() {
	user := s.mustUser("jane@example.com")

	award, err := s.db.AwardTask(user.ID, "task-biology-essay")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(800), award.Price)
	assert.Equal(s.T(), user.ID, award.UserID)

	_, err = s.db.AwardTask(user.ID, "task-biology-essay")
	assert.ErrorIs(s.T(), err, model.ErrAlreadyAwarded)

	_, err = s.db.AwardTask(user.ID, "no-such-task")
	assert.ErrorIs(s.T(), err, model.ErrTaskNotFound)
}

func (s *StoreTestSuite) TestAwardedTasksKeepInsertionOrder() {
	user := s.mustUser("jane@example.com")

	first, err := s.db.AwardTask(user.ID, "task-economics-paper")
	require.NoError(s.T(), err)
	second, err := s.db.AwardTask(user.ID, "task-biology-essay")
	require.NoError(s.T(), err)

	awards, err := s.db.GetAwardedTasks(user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), awards, 2)
	assert.Equal(s.T(), first.ID, awards[0].ID)
	assert.Equal(s.T(), second.ID, awards[1].ID)

	other := s.mustUser("other@example.com")
	none, err := s.db.GetAwardedTasks(other.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), none)
}

func (s *StoreTestSuite) TestCompleteAward() {
	user := s.mustUser("jane@example.com")
	award, err := s.db.AwardTask(user.ID, "task-economics-paper")
	require.NoError(s.T(), err)

	earning, err := s.db.CompleteAward(award.ID, user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), model.KindEarning, earning.Kind)
	assert.Equal(s.T(), int64(2500), earning.Amount)
	assert.Equal(s.T(), "system", earning.Method)

	awards, err := s.db.GetAwardedTasks(user.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), awards)

	// completing again must fail and must not append a second earning
	_, err = s.db.CompleteAward(award.ID, user.ID)
	assert.ErrorIs(s.T(), err, model.ErrAwardNotFound)

	txs, err := s.db.GetTransactions(user.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), txs, 1)
}

func (s *StoreTestSuite) TestCompleteAwardOfAnotherUser() {
	owner := s.mustUser("owner@example.com")
	thief := s.mustUser("thief@example.com")

	award, err := s.db.AwardTask(owner.ID, "task-biology-essay")
	require.NoError(s.T(), err)

	_, err = s.db.CompleteAward(award.ID, thief.ID)
	assert.ErrorIs(s.T(), err, model.ErrAwardNotFound)

	awards, err := s.db.GetAwardedTasks(owner.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), awards, 1)
}

func (s *StoreTestSuite) TestCreateTransactionRejectsBadAmounts() {
	user := s.mustUser("jane@example.com")

	_, err := s.db.CreateTransaction(user.ID, model.KindDeposit, 0, "zero", "system", "", "")
	assert.ErrorIs(s.T(), err, model.ErrInvalidAmount)

	_, err = s.db.CreateTransaction(user.ID, model.KindDeposit, -100, "negative", "system", "", "")
	assert.ErrorIs(s.T(), err, model.ErrInvalidAmount)

	balance, err := s.db.BalanceOf(user.ID)
	require.NoError(s.T(), err)
	assert.Zero(s.T(), balance)
}

func (s *StoreTestSuite) TestBalanceIdentity() {
	user := s.mustUser("jane@example.com")

	entries := []struct {
		kind   model.TxKind
		amount int64
	}{
		{model.KindDeposit, 1000},
		{model.KindEarning, 800},
		{model.KindExpense, 500},
		{model.KindEarning, 2500},
		{model.KindDeposit, 50},
		{model.KindExpense, 300},
	}

	var deposits, earnings, expenses int64
	for _, e := range entries {
		_, err := s.db.CreateTransaction(user.ID, e.kind, e.amount, "entry", "system", "", "")
		require.NoError(s.T(), err)

		switch e.kind {
		case model.KindDeposit:
			deposits += e.amount
		case model.KindEarning:
			earnings += e.amount
		case model.KindExpense:
			expenses += e.amount
		}

		// read-after-write: the identity holds after every single append
		b, err := s.db.GetBalance(user.ID)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), deposits, b.Deposits)
		assert.Equal(s.T(), earnings, b.Earnings)
		assert.Equal(s.T(), expenses, b.Expenses)
		assert.Equal(s.T(), deposits+earnings-expenses, b.Balance)
	}
}

func (s *StoreTestSuite) TestBalanceIsPerUser() {
	jane := s.mustUser("jane@example.com")
	omar := s.mustUser("omar@example.com")

	_, err := s.db.CreateTransaction(jane.ID, model.KindEarning, 800, "janes", "system", "", "")
	require.NoError(s.T(), err)

	balance, err := s.db.BalanceOf(omar.ID)
	require.NoError(s.T(), err)
	assert.Zero(s.T(), balance)
}

func (s *StoreTestSuite) TestCommitPaymentActivation() {
	user := s.mustUser("jane@example.com")

	expense, err := s.db.CommitPayment(user.ID, 500, "Account activation", "0712345678", "MPESA_17000000000000", model.PaymentActivation)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), model.KindExpense, expense.Kind)
	assert.Equal(s.T(), "mpesa", expense.Method)
	assert.Equal(s.T(), "0712345678", expense.Phone)

	got, err := s.db.GetUserByID(user.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), got.Active)

	txs, err := s.db.GetTransactions(user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), txs, 1)
	assert.Equal(s.T(), int64(500), txs[0].Amount)
}

func (s *StoreTestSuite) TestCommitPaymentWithoutActivation() {
	user := s.mustUser("jane@example.com")

	_, err := s.db.CommitPayment(user.ID, 300, "Training enrollment", "0712345678", "MPESA_17000000000000", model.PaymentTraining)
	require.NoError(s.T(), err)

	got, err := s.db.GetUserByID(user.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), got.Active)
}

func (s *StoreTestSuite) TestCommitPaymentUnknownUserLeavesNoExpense() {
	user := s.mustUser("jane@example.com")

	_, err := s.db.CommitPayment("no-such-user", 500, "Account activation", "0712345678", "MPESA_17000000000000", model.PaymentActivation)
	assert.ErrorIs(s.T(), err, model.ErrUserNotFound)

	// the expense insert must have rolled back with the failed flag flip
	txs, err := s.db.GetTransactions("no-such-user")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), txs)

	txs, err = s.db.GetTransactions(user.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), txs)
}

func (s *StoreTestSuite) TestTransactionsNewestFirst() {
	user := s.mustUser("jane@example.com")

	_, err := s.db.CreateTransaction(user.ID, model.KindDeposit, 100, "first", "system", "", "")
	require.NoError(s.T(), err)
	_, err = s.db.CreateTransaction(user.ID, model.KindDeposit, 200, "second", "system", "", "")
	require.NoError(s.T(), err)

	txs, err := s.db.GetTransactions(user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), txs, 2)
	assert.Equal(s.T(), "second", txs[0].Description)
	assert.Equal(s.T(), "first", txs[1].Description)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestReopenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.db")

	var db Database
	require.NoError(t, db.NewStorage(path))

	user, err := db.CreateUser("Jane Wanjiku", "jane@example.com", "0712345678", "hash")
	require.NoError(t, err)
	award, err := db.AwardTask(user.ID, "task-biology-essay")
	require.NoError(t, err)
	_, err = db.CreateTransaction(user.ID, model.KindDeposit, 1000, "deposit", "system", "", "")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var reopened Database
	require.NoError(t, reopened.NewStorage(path))
	defer reopened.Close()

	tasks, err := reopened.GetTasks()
	require.NoError(t, err)
	assert.Len(t, tasks, 3, "reseed must not duplicate the catalog")

	got, err := reopened.GetUserByEmail("jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Phone, got.Phone)

	awards, err := reopened.GetAwardedTasks(user.ID)
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, award.ID, awards[0].ID)
	assert.Equal(t, award.Price, awards[0].Price)

	balance, err := reopened.BalanceOf(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)
}
