package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

const (
	fundID    = "3f1d8c52-52f4-4c67-9a43-6a7f3d3a0a11"
	profileID = "8b2e7a10-0c2b-4f5e-8d4a-1f9c0e7b6a22"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestFundRepository_GetByID(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	closed := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		id    string
		setup func(mock pgxmock.PgxPoolIface)
		check func(t *testing.T, f *entity.Fund, err error)
	}{
		{
			name: "found",
			id:   fundID,
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "brand", "name", "abbreviation", "status", "closed_at", "address",
					"total_cap", "initial_cap", "par_value", "payment_schedule", "duration",
					"gp_ids", "account", "created_at", "updated_at"}).
					AddRow(fundID, "snusv", "프로펠러 1호 조합", "P1", "active", &closed, "서울",
						decimal.NewFromInt(500_000_000), decimal.NewFromInt(100_000_000), decimal.NewFromInt(1_000_000), "일시납", 5,
						[]string{profileID}, entity.BankAccount{Bank: "국민은행"}, now, now)
				mock.ExpectQuery(`FROM funds f WHERE`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnRows(rows)
			},
			check: func(t *testing.T, f *entity.Fund, err error) {
				require.NoError(t, err)
				require.NotNil(t, f)
				assert.Equal(t, entity.FundStatusActive, f.Status)
				assert.True(t, f.ParValue.Equal(decimal.NewFromInt(1_000_000)))
				assert.Equal(t, []string{profileID}, f.GPIDs)
				assert.Equal(t, "국민은행", f.Account.Bank)
				require.NotNil(t, f.ClosedAt)
			},
		},
		{
			name: "missing row is nil without error",
			id:   fundID,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM funds f WHERE`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(pgx.ErrNoRows)
			},
			check: func(t *testing.T, f *entity.Fund, err error) {
				require.NoError(t, err)
				assert.Nil(t, f)
			},
		},
		{
			name:  "malformed id never reaches the database",
			id:    "not-a-uuid",
			setup: func(pgxmock.PgxPoolIface) {},
			check: func(t *testing.T, f *entity.Fund, err error) {
				require.NoError(t, err)
				assert.Nil(t, f)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)
			f, err := NewFundRepository(mock).GetByID(context.Background(), "snusv", tt.id)
			tt.check(t, f, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_CreateDuplicateEmailIsConflict(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO profiles`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "profiles_brand_email_uq"})

	err := NewProfileRepository(mock).Create(context.Background(), &entity.Profile{
		ID: profileID, Brand: "snusv", Name: "홍길동", Email: "hong@example.com",
		Role: entity.RoleUser, EntityType: entity.EntityIndividual,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_LinkUser(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "unlinked profile is claimed", affected: 1, want: true},
		{name: "profile owned by another account", affected: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec(`UPDATE profiles SET user_id`).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			ok, err := NewProfileRepository(mock).LinkUser(context.Background(), profileID, "auth0|42")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFundMemberRepository_CountActive(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM fund_members WHERE`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	n, err := NewFundMemberRepository(mock).CountActive(context.Background(), fundID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFundMemberRepository_ListByFund(t *testing.T) {
	mock := newMock(t)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	userID := "auth0|7"
	cols := []string{"id", "fund_id", "profile_id", "investment_units", "total_units", "deleted_at", "created_at", "updated_at",
		"p_id", "brand", "user_id", "name", "email", "phone", "role", "entity_type",
		"address", "birth_date", "business_number", "p_created_at", "p_updated_at"}
	mock.ExpectQuery(`FROM fund_members m JOIN profiles p ON p.id = m.profile_id WHERE`).
		WithArgs(fundID).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(
			"c4f1b0d2-6d8e-4a59-9f5e-0b2a7d3c1e33", fundID, profileID, 10, 10, (*time.Time)(nil), now, now,
			profileID, "snusv", &userID, "홍길동", "hong@example.com", "010-1234-5678", entity.RoleUser, entity.EntityIndividual,
			"서울", "1990-01-01", "", now, now,
		))

	out, err := NewFundMemberRepository(mock).ListByFund(context.Background(), repository.MemberFilter{FundID: fundID})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 10, out[0].InvestmentUnits)
	assert.Equal(t, "홍길동", out[0].Profile.Name)
	assert.True(t, out[0].IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_MaxVersion(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version_number\), 0\) FROM generated_documents`).
		WithArgs("lpa", fundID).
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(4))

	n, err := NewDocumentRepository(mock).MaxVersion(context.Background(), fundID, entity.DocumentLPA)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_InsertDuplicateVersionIsConflict(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO generated_documents`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := NewDocumentRepository(mock).Insert(context.Background(), &entity.GeneratedDocument{
		ID: "5a0c1e2d-3b4f-4a6e-8c7d-9e0f1a2b3c44", FundID: fundID, DocumentType: entity.DocumentLPA,
		VersionNumber: 1, TemplateVersion: "1.0.0",
		GenerationContext: []byte(`{}`), ProcessedContent: []byte(`{}`),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RunDocuments(t *testing.T) {
	t.Run("commits after the callback succeeds", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`pg_advisory_xact_lock`).
			WithArgs(fundID, "member_list").
			WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectCommit()

		err := NewTxRunner(mock).RunDocuments(context.Background(), func(docs repository.DocumentRepository) error {
			return docs.LockScope(context.Background(), fundID, entity.DocumentMemberList)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the callback fails", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := NewTxRunner(mock).RunDocuments(context.Background(), func(repository.DocumentRepository) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTemplateRepository_ActivateUnknownIsNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT document_type, fund_id FROM document_templates`).
		WithArgs(profileID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := NewTemplateRepository(mock).Activate(context.Background(), profileID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
