package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/ram/entity"
)

func newRepoWithMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewRepo(sqlx.NewDb(db, "postgres")), mock
}

var ramCols = []string{"id", "name", "brand", "type", "capacity_gb", "speed_mhz", "price", "created_at", "updated_at"}

func TestList_NoFilter(t *testing.T) {
	r, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM rams ORDER BY created_at, id LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(ramCols).
			AddRow("1", "Fury", "Kingston", "DDR4", 16, 3200, 59.9, now, now).
			AddRow("2", "Vengeance", "Corsair", "DDR5", 32, 6000, 129.0, now, now))

	rams, err := r.List(context.Background(), entity.Filter{Limit: 50})
	require.NoError(t, err)
	require.Len(t, rams, 2)
	assert.Equal(t, "Fury", rams[0].Name)
	assert.Equal(t, 6000, rams[1].SpeedMHz)
}

func TestList_Filtered(t *testing.T) {
	r, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM rams WHERE brand=\$1 AND type=\$2 ORDER BY created_at, id LIMIT \$3 OFFSET \$4`).
		WithArgs("Kingston", "DDR4", 10, 20).
		WillReturnRows(sqlmock.NewRows(ramCols))

	rams, err := r.List(context.Background(), entity.Filter{Brand: "Kingston", Type: "DDR4", Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.NotNil(t, rams)
	assert.Empty(t, rams)
}

func TestGetByID_NotFound(t *testing.T) {
	r, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM rams WHERE id=\$1`).
		WithArgs("42").
		WillReturnError(sql.ErrNoRows)

	_, err := r.GetByID(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate(t *testing.T) {
	r, mock := newRepoWithMock(t)
	now := time.Now()
	m := &entity.Ram{ID: "7", Name: "Fury", Brand: "Kingston", Type: "DDR4", CapacityGB: 16, SpeedMHz: 3200, Price: 59.9, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(`INSERT INTO rams`).
		WithArgs("7", "Fury", "Kingston", "DDR4", 16, 3200, 59.9, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Create(context.Background(), m))
}

func TestUpdate_NoRows(t *testing.T) {
	r, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE rams SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.Update(context.Background(), &entity.Ram{ID: "404"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	r, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM rams WHERE id=\$1`).
		WithArgs("7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM rams WHERE id=\$1`).
		WithArgs("8").
		WillReturnError(errors.New("connection reset"))

	require.NoError(t, r.Delete(context.Background(), "7"))
	err := r.Delete(context.Background(), "8")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
