package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var actorColumns = []string{
	"id", "created_at", "updated_at", "version", "organization_id", "external_actor_id",
	"actor_number", "actor_number_type", "name", "status",
	"market_role_function", "market_role_comment", "credentials_kind", "certificate_thumbprint",
}

func newMockActorRepository(t *testing.T) (*GormActorRepository, sqlmock.Sqlmock, func()) {
	db, mock, mockDB := newMockGormDB(t)
	return NewGormActorRepository(db, NewGormEntityLock()), mock, func() { _ = mockDB.Close() }
}

// lockedContext carries a unit of work that already holds the Actor lock
func lockedContext() context.Context {
	uow := &foreignUnitOfWork{}
	uow.MarkLocked(shared.LockableEntityActor)
	return uow.Context()
}

func newGridAccessProvider(t *testing.T, gridAreaID uuid.UUID) *participant.Actor {
	t.Helper()
	ga, err := participant.NewActorGridArea(gridAreaID, []participant.MeteringPointType{participant.MeteringPointTypeConsumption})
	require.NoError(t, err)
	role, err := participant.NewActorMarketRole(participant.EicFunctionGridAccessProvider, []participant.ActorGridArea{ga}, "")
	require.NoError(t, err)
	actor, err := participant.NewActor(uuid.New(), participant.MustActorNumber("5790000555550"), "Netselskab", role)
	require.NoError(t, err)
	return actor
}

func TestGormActorRepository_FindByID(t *testing.T) {
	t.Run("loads market role grid areas", func(t *testing.T) {
		repo, mock, closeDB := newMockActorRepository(t)
		defer closeDB()

		actorID := uuid.New()
		orgID := uuid.New()
		gridAreaID := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(`SELECT \* FROM "actors" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(actorID, 1).
			WillReturnRows(sqlmock.NewRows(actorColumns).AddRow(
				actorID, now, now, 3, orgID, nil,
				"5790000555550", "GLN", "Netselskab", "Active",
				"GridAccessProvider", "north", nil, nil,
			))
		mock.ExpectQuery(`SELECT \* FROM "actor_market_role_grid_areas" WHERE "actor_market_role_grid_areas"."actor_id" = \$1`).
			WithArgs(actorID).
			WillReturnRows(sqlmock.NewRows([]string{"actor_id", "grid_area_id", "position", "metering_point_types"}).
				AddRow(actorID, gridAreaID, 0, "{E17Consumption}"))

		actor, err := repo.FindByID(context.Background(), actorID)

		require.NoError(t, err)
		assert.Equal(t, actorID, actor.ID)
		assert.Equal(t, 3, actor.Version)
		assert.Equal(t, participant.ActorStatusActive, actor.Status)
		require.NotNil(t, actor.MarketRole)
		assert.Equal(t, participant.EicFunctionGridAccessProvider, actor.MarketRole.Function())
		assert.Equal(t, []uuid.UUID{gridAreaID}, actor.MarketRole.GridAreaIDs())
		assert.Nil(t, actor.Credentials)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		repo, mock, closeDB := newMockActorRepository(t)
		defer closeDB()

		actorID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "actors" WHERE id = \$1`).
			WithArgs(actorID, 1).
			WillReturnRows(sqlmock.NewRows(actorColumns))

		actor, err := repo.FindByID(context.Background(), actorID)

		assert.Nil(t, actor)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormActorRepository_FindByFunction(t *testing.T) {
	repo, mock, closeDB := newMockActorRepository(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT \* FROM "actors" WHERE market_role_function = \$1 ORDER BY created_at, id`).
		WithArgs("EnergySupplier").
		WillReturnRows(sqlmock.NewRows(actorColumns))

	actors, err := repo.FindByFunction(context.Background(), participant.EicFunctionEnergySupplier)

	require.NoError(t, err)
	assert.Empty(t, actors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormActorRepository_AddOrUpdate(t *testing.T) {
	t.Run("insert requires the actor lock", func(t *testing.T) {
		repo, mock, closeDB := newMockActorRepository(t)
		defer closeDB()

		actor := newGridAccessProvider(t, uuid.New())
		mock.ExpectQuery(`SELECT count\(\*\) FROM "actors" WHERE id = \$1`).
			WithArgs(actor.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		_, err := repo.AddOrUpdate(context.Background(), actor)

		var violation *shared.InvariantViolation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "Actor lock is required.", violation.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inserts actor and grid areas under the lock", func(t *testing.T) {
		repo, mock, closeDB := newMockActorRepository(t)
		defer closeDB()

		actor := newGridAccessProvider(t, uuid.New())
		mock.ExpectQuery(`SELECT count\(\*\) FROM "actors" WHERE id = \$1`).
			WithArgs(actor.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO "actors"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "actor_market_role_grid_areas" WHERE actor_id = \$1`).
			WithArgs(actor.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO "actor_market_role_grid_areas"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		id, err := repo.AddOrUpdate(lockedContext(), actor)

		require.NoError(t, err)
		assert.Equal(t, actor.ID, id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("updates without the lock and clears a removed market role", func(t *testing.T) {
		repo, mock, closeDB := newMockActorRepository(t)
		defer closeDB()

		actor := newGridAccessProvider(t, uuid.New())
		actor.MarketRole = nil
		mock.ExpectQuery(`SELECT count\(\*\) FROM "actors" WHERE id = \$1`).
			WithArgs(actor.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`UPDATE "actors" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "actor_market_role_grid_areas" WHERE actor_id = \$1`).
			WithArgs(actor.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		_, err := repo.AddOrUpdate(context.Background(), actor)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a duplicate thumbprint to a conflict", func(t *testing.T) {
		repo, mock, closeDB := newMockActorRepository(t)
		defer closeDB()

		actor := newGridAccessProvider(t, uuid.New())
		creds, err := participant.NewCertificateCredentials("0123456789abcdef0123456789abcdef01234567", time.Now().Add(time.Hour))
		require.NoError(t, err)
		actor.Credentials = creds

		mock.ExpectQuery(`SELECT count\(\*\) FROM "actors" WHERE id = \$1`).
			WithArgs(actor.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO "actors"`).
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintActorThumbprint})

		_, err = repo.AddOrUpdate(lockedContext(), actor)

		assert.ErrorIs(t, err, participant.ErrCertificateThumbprintConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
