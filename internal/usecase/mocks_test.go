package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

type mockUserRepository struct {
	createErr   error
	createCalls int
	createdUser domain.User

	getByIDResult *domain.User
	getByIDErr    error
	getByIDCalls  int

	getByEmailResult    *domain.User
	getByEmailErr       error
	getByEmailCalls     int
	getByEmailLastEmail string

	activateErr    error
	activateCalls  int
	activateLastID string

	updatePasswordErr    error
	updatePasswordCalls  int
	updatePasswordLastID string
	updatedPasswordHash  string
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	return m.createErr
}

func (m *mockUserRepository) GetByID(context.Context, string) (*domain.User, error) {
	m.getByIDCalls++
	if m.getByIDResult != nil {
		copy := *m.getByIDResult
		return &copy, m.getByIDErr
	}
	return nil, m.getByIDErr
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.getByEmailCalls++
	m.getByEmailLastEmail = email
	if m.getByEmailResult != nil {
		copy := *m.getByEmailResult
		return &copy, m.getByEmailErr
	}
	return nil, m.getByEmailErr
}

func (m *mockUserRepository) Activate(_ context.Context, id string, _ time.Time) error {
	m.activateCalls++
	m.activateLastID = id
	return m.activateErr
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, id string, passwordHash string, _ string, _ time.Time) error {
	m.updatePasswordCalls++
	m.updatePasswordLastID = id
	m.updatedPasswordHash = passwordHash
	return m.updatePasswordErr
}

type mockTokenRepository struct {
	createVerificationErr error
	createCalls           int
	createdCode           domain.VerificationCode

	getVerificationResult     *domain.VerificationCode
	getVerificationErr        error
	getVerificationCalls      int
	getVerificationLastUserID string
	getVerificationLastHash   string
	// keyed by user ID; when set it takes precedence over getVerificationResult
	getVerificationByUser map[string]*domain.VerificationCode

	latestResult *domain.VerificationCode
	latestErr    error
	latestCalls  int

	consumeVerificationErr    error
	consumeVerificationCalls  int
	consumeVerificationLastID string

	createResetErr error
	createResetN   int
	createdReset   domain.PasswordResetToken

	getResetResult *domain.PasswordResetToken
	getResetErr    error
	getResetCalls  int

	consumeResetErr    error
	consumeResetCalls  int
	consumeResetLastID string
}

func (m *mockTokenRepository) CreateVerification(_ context.Context, code domain.VerificationCode) error {
	m.createCalls++
	m.createdCode = code
	return m.createVerificationErr
}

func (m *mockTokenRepository) GetVerification(_ context.Context, userID, hash string) (*domain.VerificationCode, error) {
	m.getVerificationCalls++
	m.getVerificationLastUserID = userID
	m.getVerificationLastHash = hash
	if m.getVerificationByUser != nil {
		record, ok := m.getVerificationByUser[userID]
		if !ok || record.CodeHash != hash {
			return nil, repository.ErrNotFound
		}
		copy := *record
		return &copy, nil
	}
	if m.getVerificationResult != nil {
		copy := *m.getVerificationResult
		return &copy, m.getVerificationErr
	}
	return nil, m.getVerificationErr
}

func (m *mockTokenRepository) LatestVerificationForUser(context.Context, string) (*domain.VerificationCode, error) {
	m.latestCalls++
	if m.latestResult != nil {
		copy := *m.latestResult
		return &copy, m.latestErr
	}
	return nil, m.latestErr
}

func (m *mockTokenRepository) ConsumeVerification(_ context.Context, id string) error {
	m.consumeVerificationCalls++
	m.consumeVerificationLastID = id
	return m.consumeVerificationErr
}

func (m *mockTokenRepository) CreatePasswordReset(_ context.Context, token domain.PasswordResetToken) error {
	m.createResetN++
	m.createdReset = token
	return m.createResetErr
}

func (m *mockTokenRepository) GetPasswordResetByHash(context.Context, string) (*domain.PasswordResetToken, error) {
	m.getResetCalls++
	if m.getResetResult != nil {
		copy := *m.getResetResult
		return &copy, m.getResetErr
	}
	return nil, m.getResetErr
}

func (m *mockTokenRepository) ConsumePasswordReset(_ context.Context, id string) error {
	m.consumeResetCalls++
	m.consumeResetLastID = id
	return m.consumeResetErr
}

type mockProfileRepository struct {
	createErr      error
	createCalls    int
	createdProfile domain.Profile

	getByUserResult *domain.Profile
	getByUserErr    error
	getByUserCalls  int
}

func (m *mockProfileRepository) Create(_ context.Context, profile domain.Profile) error {
	m.createCalls++
	m.createdProfile = profile
	return m.createErr
}

func (m *mockProfileRepository) GetByUser(context.Context, string) (*domain.Profile, error) {
	m.getByUserCalls++
	if m.getByUserResult != nil {
		copy := *m.getByUserResult
		return &copy, m.getByUserErr
	}
	return nil, m.getByUserErr
}

type mockShiftRepository struct {
	createErr    error
	createCalls  int
	createdShift domain.Shift

	getByIDResult *domain.Shift
	getByIDErr    error
	getByIDCalls  int

	listAvailableResult []domain.Shift
	listAvailableErr    error

	listBySellerResult []domain.Shift
	listBySellerErr    error

	listByBuyerResult []domain.Shift
	listByBuyerErr    error

	markPendingErr       error
	markPendingCalls     int
	markPendingLastShift string
	markPendingLastBuyer string
}

func (m *mockShiftRepository) Create(_ context.Context, shift domain.Shift) error {
	m.createCalls++
	m.createdShift = shift
	return m.createErr
}

func (m *mockShiftRepository) GetByID(context.Context, string) (*domain.Shift, error) {
	m.getByIDCalls++
	if m.getByIDResult != nil {
		copy := *m.getByIDResult
		return &copy, m.getByIDErr
	}
	return nil, m.getByIDErr
}

func (m *mockShiftRepository) ListAvailable(context.Context) ([]domain.Shift, error) {
	return m.listAvailableResult, m.listAvailableErr
}

func (m *mockShiftRepository) ListBySeller(context.Context, string) ([]domain.Shift, error) {
	return m.listBySellerResult, m.listBySellerErr
}

func (m *mockShiftRepository) ListByBuyer(context.Context, string) ([]domain.Shift, error) {
	return m.listByBuyerResult, m.listByBuyerErr
}

func (m *mockShiftRepository) MarkPending(_ context.Context, shiftID, buyerID string) error {
	m.markPendingCalls++
	m.markPendingLastShift = shiftID
	m.markPendingLastBuyer = buyerID
	return m.markPendingErr
}

type mockSessionStore struct {
	saveErr      error
	saveCalls    int
	savedSession domain.Session
	savedTTL     time.Duration

	getResult *domain.Session
	getErr    error
	getCalls  int

	deleteErr    error
	deleteCalls  int
	deleteLastID string
}

func (m *mockSessionStore) Save(_ context.Context, session domain.Session, ttl time.Duration) error {
	m.saveCalls++
	m.savedSession = session
	m.savedTTL = ttl
	return m.saveErr
}

func (m *mockSessionStore) Get(context.Context, string) (*domain.Session, error) {
	m.getCalls++
	if m.getResult != nil {
		copy := *m.getResult
		return &copy, m.getErr
	}
	return nil, m.getErr
}

func (m *mockSessionStore) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	m.deleteLastID = id
	return m.deleteErr
}

type mockEligibilityChecker struct {
	result bool
	calls  int

	lastStudentNumber string
	lastFullName      string
}

func (m *mockEligibilityChecker) Validate(studentNumber, fullName string) bool {
	m.calls++
	m.lastStudentNumber = studentNumber
	m.lastFullName = fullName
	return m.result
}

type mockEventPublisher struct {
	registeredCalls int
	registeredEvent domain.UserRegisteredEvent

	verifiedCalls int
	verifiedEvent domain.UserVerifiedEvent

	listedCalls int
	listedEvent domain.ShiftListedEvent

	purchasedCalls int
	purchasedEvent domain.ShiftPurchasedEvent

	err error
}

func (m *mockEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.registeredCalls++
	m.registeredEvent = event
	return m.err
}

func (m *mockEventPublisher) PublishUserVerified(_ context.Context, event domain.UserVerifiedEvent) error {
	m.verifiedCalls++
	m.verifiedEvent = event
	return m.err
}

func (m *mockEventPublisher) PublishShiftListed(_ context.Context, event domain.ShiftListedEvent) error {
	m.listedCalls++
	m.listedEvent = event
	return m.err
}

func (m *mockEventPublisher) PublishShiftPurchased(_ context.Context, event domain.ShiftPurchasedEvent) error {
	m.purchasedCalls++
	m.purchasedEvent = event
	return m.err
}

var errBackend = errors.New("backend unavailable")
