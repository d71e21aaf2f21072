package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/database/testutil"
	"github.com/taskdeck/taskdeck/internal/models"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
)

func newTaskFixture(t *testing.T) (*gorm.DB, *TaskService, *models.User, *models.User) {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	svc, err := NewTaskService(db)
	require.NoError(t, err)

	owner := &models.User{Username: "alice", Password: "x", IsActive: true}
	other := &models.User{Username: "bob", Password: "x", IsActive: true}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(other).Error)

	return db, svc, owner, other
}

func TestCreateTask(t *testing.T) {
	_, svc, owner, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, owner.ID, CreateTaskInput{Title: "buy milk"})
	require.NoError(t, err)
	require.Equal(t, owner.ID, task.UserID)
	require.Equal(t, "buy milk", task.Title)
	require.Empty(t, task.Description)
	require.False(t, task.Done)
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	_, svc, owner, _ := newTaskFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner.ID, CreateTaskInput{Title: "  ", Description: "details"})
	require.ErrorIs(t, err, apperrors.ErrTitleRequired)
}

func TestListScopedToOwner(t *testing.T) {
	_, svc, owner, other := newTaskFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner.ID, CreateTaskInput{Title: "first"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, CreateTaskInput{Title: "second"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.ID, CreateTaskInput{Title: "not yours"})
	require.NoError(t, err)

	tasks, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, "first", tasks[0].Title)
	require.Equal(t, "second", tasks[1].Title)

	empty, err := svc.List(ctx, owner.ID+other.ID)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestGetDistinguishesMissingFromForeign(t *testing.T) {
	_, svc, owner, other := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, owner.ID, CreateTaskInput{Title: "mine"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, task.ID, got.ID)

	_, err = svc.Get(ctx, other.ID, task.ID)
	require.ErrorIs(t, err, apperrors.ErrNotOwner)

	_, err = svc.Get(ctx, owner.ID, task.ID+99)
	require.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestUpdatePartialSemantics(t *testing.T) {
	_, svc, owner, _ := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, owner.ID, CreateTaskInput{Title: "original", Description: "keep me"})
	require.NoError(t, err)

	newTitle := "renamed"
	updated, err := svc.Update(ctx, owner.ID, task.ID, UpdateTaskInput{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Title)
	require.Equal(t, "keep me", updated.Description)

	// Empty values leave fields unchanged.
	empty := ""
	updated, err = svc.Update(ctx, owner.ID, task.ID, UpdateTaskInput{Title: &empty, Description: &empty})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Title)
	require.Equal(t, "keep me", updated.Description)
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	_, svc, owner, other := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, owner.ID, CreateTaskInput{Title: "mine"})
	require.NoError(t, err)

	title := "stolen"
	_, err = svc.Update(ctx, other.ID, task.ID, UpdateTaskInput{Title: &title})
	require.ErrorIs(t, err, apperrors.ErrNotOwner)

	_, err = svc.Update(ctx, owner.ID, task.ID+99, UpdateTaskInput{Title: &title})
	require.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestSetDoneIsOneWay(t *testing.T) {
	db, svc, owner, other := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, owner.ID, CreateTaskInput{Title: "todo"})
	require.NoError(t, err)

	done, err := svc.SetDone(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	require.True(t, done.Done)

	// Calling again keeps it done.
	done, err = svc.SetDone(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	require.True(t, done.Done)

	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	require.True(t, stored.Done)

	_, err = svc.SetDone(ctx, other.ID, task.ID)
	require.ErrorIs(t, err, apperrors.ErrNotOwner)
}

func TestDeleteRemovesOwnedTask(t *testing.T) {
	db, svc, owner, other := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, owner.ID, CreateTaskInput{Title: "temp"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, other.ID, task.ID), apperrors.ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, owner.ID, task.ID))

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error)
	require.Zero(t, count)

	require.ErrorIs(t, svc.Delete(ctx, owner.ID, task.ID), apperrors.ErrTaskNotFound)
}
