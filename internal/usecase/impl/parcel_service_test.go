package impl

import (
	"context"
	"testing"
	"time"

	"lockerbox/config"
	"lockerbox/internal/domain/entity"
	domainerrors "lockerbox/internal/domain/errors"
	"lockerbox/internal/domain/repository"
	"lockerbox/internal/errors"
	"lockerbox/internal/mocks"
	"lockerbox/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type parcelFixture struct {
	svc        usecase.ParcelUsecase
	lockerRepo *mocks.MockLockerRepository
	parcelRepo *mocks.MockParcelRepository
	pin        *mocks.MockPinService
	mail       *mocks.MockMailSender
	qr         *mocks.MockQRCodeService
	sink       *recordingSink
}

func newParcelFixture(t *testing.T) *parcelFixture {
	t.Helper()

	lockerRepo := mocks.NewMockLockerRepository(t)
	parcelRepo := mocks.NewMockParcelRepository(t)
	pin := mocks.NewMockPinService(t)
	mail := mocks.NewMockMailSender(t)
	qr := mocks.NewMockQRCodeService(t)
	sink := &recordingSink{}

	cfg := &config.Config{
		Pin: &config.PinConfig{
			TTL:            24 * time.Hour,
			Iterations:     1000,
			MaxGenerations: 3,
			Window:         24 * time.Hour,
		},
		Reminder: &config.ReminderConfig{
			Enabled:   true,
			Interval:  time.Hour,
			Threshold: 24 * time.Hour,
		},
	}

	svc := NewParcelService(ParcelServiceParams{
		TxManager:  &fakeTxManager{factory: &fakeFactory{lockerRepo: lockerRepo, parcelRepo: parcelRepo}},
		ParcelRepo: parcelRepo,
		LockerRepo: lockerRepo,
		PinService: pin,
		MailSender: mail,
		AuditSink:  sink,
		QRService:  qr,
		Config:     cfg,
		Logger:     discardLogger(),
	})

	return &parcelFixture{
		svc:        svc,
		lockerRepo: lockerRepo,
		parcelRepo: parcelRepo,
		pin:        pin,
		mail:       mail,
		qr:         qr,
		sink:       sink,
	}
}

func depositedParcel(lockerID uuid.UUID) *entity.Parcel {
	now := time.Now()

	return &entity.Parcel{
		ID:                 uuid.New(),
		LockerID:           &lockerID,
		RecipientEmail:     "student@campus.example",
		Status:             entity.ParcelDeposited,
		PinHash:            []byte{0xaa},
		PinSalt:            []byte{0xbb},
		PinGeneratedAt:     now,
		ExpiresAt:          now.Add(24 * time.Hour),
		PinGenerationCount: 1,
		PinWindowStartedAt: now,
		CreatedAt:          now,
	}
}

func TestParcelService_Deposit_Success(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	locker := &entity.Locker{ID: uuid.New(), Location: "Main hall", Size: entity.SizeMedium, Status: entity.LockerFree}

	f.pin.On("Generate").Return("482913", []byte("salt"), []byte("hash"), nil)
	f.pin.On("TTL").Return(24 * time.Hour)
	f.lockerRepo.On("FindAvailableForUpdate", ctx, entity.SizeMedium).Return(locker, nil)
	f.lockerRepo.On("UpdateStatus", ctx, locker.ID, entity.LockerOccupied).Return(nil)
	f.parcelRepo.On("Create", ctx, mock.AnythingOfType("*entity.Parcel")).Return(nil)
	f.mail.On("Send", ctx, "student@campus.example", mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.Deposit(ctx, &usecase.DepositInput{
		RecipientEmail: "student@campus.example",
		Size:           entity.SizeMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, "482913", result.Pin)
	assert.Equal(t, locker.ID, result.Locker.ID)
	assert.Equal(t, entity.LockerOccupied, result.Locker.Status)
	assert.Equal(t, entity.ParcelDeposited, result.Parcel.Status)
	assert.Equal(t, 1, result.Parcel.PinGenerationCount)
	require.NotNil(t, result.Parcel.LockerID)
	assert.Equal(t, locker.ID, *result.Parcel.LockerID)

	assert.Contains(t, f.sink.codes(), entity.ActionDepositSuccess)
}

func TestParcelService_Deposit_NoLockerAvailable(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	f.pin.On("Generate").Return("482913", []byte("salt"), []byte("hash"), nil)
	f.pin.On("TTL").Return(24 * time.Hour)
	f.lockerRepo.On("FindAvailableForUpdate", ctx, entity.SizeLarge).Return(nil, repository.ErrLockerNotFound)

	_, err := f.svc.Deposit(ctx, &usecase.DepositInput{
		RecipientEmail: "student@campus.example",
		Size:           entity.SizeLarge,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNoLockerAvailable)
	assert.Empty(t, f.sink.codes())
}

func TestParcelService_Deposit_RejectsBadInput(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	_, err := f.svc.Deposit(ctx, &usecase.DepositInput{RecipientEmail: "", Size: entity.SizeSmall})
	assert.Error(t, err)

	_, err = f.svc.Deposit(ctx, &usecase.DepositInput{RecipientEmail: "a@b.example", Size: "gigantic"})
	assert.Error(t, err)
}

func TestParcelService_Deposit_MailFailureIsNonFatal(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	locker := &entity.Locker{ID: uuid.New(), Size: entity.SizeSmall, Status: entity.LockerFree}

	f.pin.On("Generate").Return("000111", []byte("salt"), []byte("hash"), nil)
	f.pin.On("TTL").Return(24 * time.Hour)
	f.lockerRepo.On("FindAvailableForUpdate", ctx, entity.SizeSmall).Return(locker, nil)
	f.lockerRepo.On("UpdateStatus", ctx, locker.ID, entity.LockerOccupied).Return(nil)
	f.parcelRepo.On("Create", ctx, mock.AnythingOfType("*entity.Parcel")).Return(nil)
	f.mail.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	result, err := f.svc.Deposit(ctx, &usecase.DepositInput{
		RecipientEmail: "student@campus.example",
		Size:           entity.SizeSmall,
	})
	require.NoError(t, err, "deposit already committed; mail failure must not surface")
	assert.Equal(t, "000111", result.Pin)

	codes := f.sink.codes()
	assert.Contains(t, codes, entity.ActionDepositSuccess)
	assert.Contains(t, codes, entity.ActionNotificationFailed)
}

func TestParcelService_Pickup_Success(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	lockerID := uuid.New()
	parcel := depositedParcel(lockerID)

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)
	f.pin.On("IsValidFormat", "482913").Return(true)
	f.pin.On("IsExpired", parcel.ExpiresAt, mock.AnythingOfType("time.Time")).Return(false)
	f.pin.On("Verify", "482913", parcel.PinSalt, parcel.PinHash).Return(true)
	f.parcelRepo.On("Update", ctx, parcel).Return(nil)
	f.lockerRepo.On("FindByID", ctx, lockerID).Return(&entity.Locker{ID: lockerID, Status: entity.LockerOccupied}, nil)
	f.lockerRepo.On("UpdateStatus", ctx, lockerID, entity.LockerFree).Return(nil)

	result, err := f.svc.Pickup(ctx, parcel.ID, "482913")
	require.NoError(t, err)
	assert.Equal(t, entity.ParcelPickedUp, result.Parcel.Status)
	assert.Nil(t, result.Parcel.LockerID)
	assert.Equal(t, lockerID, result.LockerID)

	assert.Contains(t, f.sink.codes(), entity.ActionPickupSuccess)
}

func TestParcelService_Pickup_WrongPin(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	parcel := depositedParcel(uuid.New())

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)
	f.pin.On("IsValidFormat", "000000").Return(true)
	f.pin.On("IsExpired", parcel.ExpiresAt, mock.AnythingOfType("time.Time")).Return(false)
	f.pin.On("Verify", "000000", parcel.PinSalt, parcel.PinHash).Return(false)

	_, err := f.svc.Pickup(ctx, parcel.ID, "000000")
	assert.ErrorIs(t, err, domainerrors.ErrPickupRejected)
	assert.Equal(t, entity.ParcelDeposited, parcel.Status, "parcel untouched")

	entry := f.sink.last()
	require.NotNil(t, entry)
	assert.Equal(t, entity.ActionPickupInvalidPin, entry.code)
	assert.Equal(t, entity.AuditSecurityEvent, entry.category)
}

func TestParcelService_Pickup_ExpiredPin(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	parcel := depositedParcel(uuid.New())

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)
	f.pin.On("IsValidFormat", "482913").Return(true)
	f.pin.On("IsExpired", parcel.ExpiresAt, mock.AnythingOfType("time.Time")).Return(true)

	_, err := f.svc.Pickup(ctx, parcel.ID, "482913")
	assert.ErrorIs(t, err, domainerrors.ErrPickupRejected, "expired PIN gets the same generic error")

	entry := f.sink.last()
	require.NotNil(t, entry)
	assert.Equal(t, entity.ActionPickupPinExpired, entry.code)
}

func TestParcelService_Pickup_AlreadyResolved(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	parcel := depositedParcel(uuid.New())
	parcel.Status = entity.ParcelPickedUp

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)

	_, err := f.svc.Pickup(ctx, parcel.ID, "482913")
	assert.ErrorIs(t, err, domainerrors.ErrPickupRejected)

	entry := f.sink.last()
	require.NotNil(t, entry)
	assert.Equal(t, entity.ActionPickupWrongState, entry.code)
}

func TestParcelService_Pickup_NotFound(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	parcelID := uuid.New()
	f.parcelRepo.On("FindByIDForUpdate", ctx, parcelID).Return(nil, repository.ErrParcelNotFound)

	_, err := f.svc.Pickup(ctx, parcelID, "482913")
	assert.ErrorIs(t, err, domainerrors.ErrParcelNotFound)
	assert.Empty(t, f.sink.codes())
}

func TestParcelService_Pickup_OutOfServiceLockerStaysDown(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	lockerID := uuid.New()
	parcel := depositedParcel(lockerID)

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)
	f.pin.On("IsValidFormat", "482913").Return(true)
	f.pin.On("IsExpired", parcel.ExpiresAt, mock.AnythingOfType("time.Time")).Return(false)
	f.pin.On("Verify", "482913", parcel.PinSalt, parcel.PinHash).Return(true)
	f.parcelRepo.On("Update", ctx, parcel).Return(nil)
	// No UpdateStatus expectation: the disabled compartment must stay down.
	f.lockerRepo.On("FindByID", ctx, lockerID).Return(&entity.Locker{ID: lockerID, Status: entity.LockerOutOfService}, nil)

	_, err := f.svc.Pickup(ctx, parcel.ID, "482913")
	require.NoError(t, err)
}

func TestParcelService_ReissuePin_Success(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	parcel := depositedParcel(uuid.New())
	oldHash := parcel.PinHash

	f.pin.On("Generate").Return("555666", []byte("newsalt"), []byte("newhash"), nil)
	f.pin.On("TTL").Return(24 * time.Hour)
	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)
	f.parcelRepo.On("Update", ctx, parcel).Return(nil)
	f.mail.On("Send", ctx, parcel.RecipientEmail, mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.ReissuePin(ctx, parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, "555666", result.Pin)
	assert.Equal(t, 2, result.Parcel.PinGenerationCount)
	assert.NotEqual(t, oldHash, result.Parcel.PinHash, "old PIN material replaced")

	assert.Contains(t, f.sink.codes(), entity.ActionPinReissued)
}

func TestParcelService_ReissuePin_RateLimited(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	parcel := depositedParcel(uuid.New())
	parcel.PinGenerationCount = 3

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)

	_, err := f.svc.ReissuePin(ctx, parcel.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPinRateLimited)
	assert.Contains(t, f.sink.codes(), entity.ActionPinRateLimited)
	f.pin.AssertNotCalled(t, "Generate")
}

func TestParcelService_ReissuePin_WindowResets(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	// Three generations exhausted, but the window started 25h ago.
	parcel := depositedParcel(uuid.New())
	parcel.PinGenerationCount = 3
	parcel.PinWindowStartedAt = time.Now().Add(-25 * time.Hour)

	f.pin.On("Generate").Return("555666", []byte("s"), []byte("h"), nil)
	f.pin.On("TTL").Return(24 * time.Hour)
	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)
	f.parcelRepo.On("Update", ctx, parcel).Return(nil)
	f.mail.On("Send", ctx, parcel.RecipientEmail, mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.ReissuePin(ctx, parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Parcel.PinGenerationCount, "fresh window starts counting at one")
}

func TestParcelService_ReissuePin_WrongState(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	parcel := depositedParcel(uuid.New())
	parcel.Status = entity.ParcelPickedUp

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)

	_, err := f.svc.ReissuePin(ctx, parcel.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	f.pin.AssertNotCalled(t, "Generate")
}

func TestParcelService_Retract_FreesLocker(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	lockerID := uuid.New()
	parcel := depositedParcel(lockerID)

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)
	f.parcelRepo.On("Update", ctx, parcel).Return(nil)
	f.lockerRepo.On("FindByID", ctx, lockerID).Return(&entity.Locker{ID: lockerID, Status: entity.LockerOccupied}, nil)
	f.lockerRepo.On("UpdateStatus", ctx, lockerID, entity.LockerFree).Return(nil)

	result, err := f.svc.Retract(ctx, parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ParcelRetractedBySender, result.Status)
	assert.Nil(t, result.LockerID)
	assert.Contains(t, f.sink.codes(), entity.ActionParcelRetracted)
}

func TestParcelService_DisputePickup_QuarantinesLocker(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	lockerID := uuid.New()
	parcel := depositedParcel(lockerID)

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)
	f.parcelRepo.On("Update", ctx, parcel).Return(nil)
	f.lockerRepo.On("UpdateStatus", ctx, lockerID, entity.LockerDisputedContents).Return(nil)

	result, err := f.svc.DisputePickup(ctx, parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ParcelPickupDisputed, result.Status)
	require.NotNil(t, result.LockerID, "disputed parcel still occupies the locker")
	assert.Contains(t, f.sink.codes(), entity.ActionPickupDisputed)
}

func TestParcelService_ReportMissing_DisablesLocker(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	lockerID := uuid.New()
	parcel := depositedParcel(lockerID)

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)
	f.parcelRepo.On("Update", ctx, parcel).Return(nil)
	f.lockerRepo.On("UpdateStatus", ctx, lockerID, entity.LockerOutOfService).Return(nil)

	result, err := f.svc.ReportMissing(ctx, parcel.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ParcelMissing, result.Status)

	entry := f.sink.last()
	require.NotNil(t, entry)
	assert.Equal(t, entity.ActionParcelMissing, entry.code)
	assert.Equal(t, entity.AuditUserAction, entry.category)
	assert.Equal(t, entity.SeverityHigh, entry.severity)
}

func TestParcelService_ReportMissing_AdminActorAudited(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	lockerID := uuid.New()
	parcel := depositedParcel(lockerID)

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)
	f.parcelRepo.On("Update", ctx, parcel).Return(nil)
	f.lockerRepo.On("UpdateStatus", ctx, lockerID, entity.LockerOutOfService).Return(nil)

	_, err := f.svc.ReportMissing(ctx, parcel.ID, "porter")
	require.NoError(t, err)

	entry := f.sink.last()
	require.NotNil(t, entry)
	assert.Equal(t, entity.ActionParcelMissing, entry.code)
	assert.Equal(t, entity.AuditAdminAction, entry.category)
	assert.Equal(t, entity.SeverityHigh, entry.severity)
	assert.Equal(t, "porter", entry.details["actor"])
}

func TestParcelService_ReportMissing_TerminalParcelRejected(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	parcel := depositedParcel(uuid.New())
	parcel.Status = entity.ParcelRetractedBySender

	f.parcelRepo.On("FindByIDForUpdate", ctx, parcel.ID).Return(parcel, nil)

	_, err := f.svc.ReportMissing(ctx, parcel.ID, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestParcelService_GeneratePickupQR(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	parcel := depositedParcel(uuid.New())

	f.parcelRepo.On("FindByID", ctx, parcel.ID).Return(parcel, nil)
	f.qr.On("GeneratePickupQR", parcel.ID).Return([]byte("png-bytes"), nil)

	png, err := f.svc.GeneratePickupQR(ctx, parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), png)
}

func TestParcelService_GeneratePickupQR_ResolvedParcel(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()

	parcel := depositedParcel(uuid.New())
	parcel.Status = entity.ParcelPickedUp

	f.parcelRepo.On("FindByID", ctx, parcel.ID).Return(parcel, nil)

	_, err := f.svc.GeneratePickupQR(ctx, parcel.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestParcelService_ProcessReminders(t *testing.T) {
	f := newParcelFixture(t)
	ctx := context.Background()
	now := time.Now()

	first := depositedParcel(uuid.New())
	first.RecipientEmail = "first@campus.example"
	second := depositedParcel(uuid.New())
	second.RecipientEmail = "second@campus.example"

	f.parcelRepo.On("FindReminderDue", ctx, now.Add(-24*time.Hour)).
		Return([]*entity.Parcel{first, second}, nil)
	f.mail.On("Send", ctx, "first@campus.example", mock.Anything, mock.Anything).Return(nil)
	f.mail.On("Send", ctx, "second@campus.example", mock.Anything, mock.Anything).Return(errors.New("mailbox full"))
	f.parcelRepo.On("Update", ctx, first).Return(nil)

	report, err := f.svc.ProcessReminders(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Due)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Failed)

	require.NotNil(t, first.ReminderSentAt)
	assert.Nil(t, second.ReminderSentAt, "failed send leaves the parcel due for the next sweep")

	codes := f.sink.codes()
	assert.Contains(t, codes, entity.ActionNotificationFailed)
	assert.Contains(t, codes, entity.ActionReminderRun)
}
