package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/satu-n/sprig/internal/acceptor"
	"github.com/satu-n/sprig/internal/apperr"
	"github.com/satu-n/sprig/internal/cache"
	"github.com/satu-n/sprig/internal/dsl"
	"github.com/satu-n/sprig/internal/middleware"
	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/repository"
	"github.com/satu-n/sprig/internal/scheduler"
)

// Handlers groups the collaborators every route needs.
type Handlers struct {
	Repo       repository.Repository
	Cache      *cache.ScheduleCache
	BcryptCost int
}

type textRequest struct {
	Text string `json:"text"`
}

// PostText is POST /api/text: the single entrypoint for both task
// batches and slash-commands, per spec.md §4.1.
func (h *Handlers) PostText(c *fiber.Ctx) error {
	var body textRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.NewBadRequest("malformed request body")
	}

	req, perr := dsl.Parse(body.Text)
	if perr != nil {
		return apperr.NewBadRequest("%s", perr.Error())
	}

	ctx := c.Context()
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	user, err := h.Repo.Users().Find(ctx, userID)
	if err != nil {
		return apperr.Wrap(err)
	}
	if user == nil {
		return apperr.NewUnauthorized()
	}

	if req.Command != nil {
		return h.runCommand(ctx, c, *user, req.Command)
	}
	return h.runTaskBatch(ctx, c, *user, req.Tasks)
}

func (h *Handlers) runTaskBatch(ctx context.Context, c *fiber.Ctx, user model.User, tasks []dsl.ReqTask) error {
	upserter, err := acceptor.Accept(ctx, tasks, user, h.Repo)
	if err != nil {
		return err
	}

	createdCount, updatedCount, err := upserter.Upsert(ctx, h.Repo, user.ID)
	if err != nil {
		return err
	}

	if h.Cache != nil {
		_ = h.Cache.Invalidate(ctx, user.ID)
	}

	return ok(c, fiber.Map{"created": createdCount, "updated": updatedCount})
}

func (h *Handlers) runCommand(ctx context.Context, c *fiber.Ctx, user model.User, cmd *dsl.Command) error {
	switch cmd.Kind {
	case dsl.Help:
		return ok(c, fiber.Map{"message": helpText})
	case dsl.Tutorial:
		return ok(c, fiber.Map{"message": tutorialText})
	case dsl.Coffee:
		return ok(c, fiber.Map{"message": "☕"})
	case dsl.Search:
		return h.runSearch(ctx, c, user, cmd)
	case dsl.User:
		return h.runUserCommand(ctx, c, user, cmd.User)
	default:
		return apperr.NewBadRequest("unrecognized command")
	}
}

func (h *Handlers) runSearch(ctx context.Context, c *fiber.Ctx, user model.User, cmd *dsl.Command) error {
	if len(cmd.Condition) == 0 {
		return apperr.NewBadRequest("empty search condition")
	}
	cond := cmd.Condition[0]

	// Compiling validates and bounds regexes once per request, per
	// spec.md §9's regex-safety invariant, before the condition is
	// handed to the repository's own (SQL) filter composition.
	if _, err := acceptor.CompileCondition(cond); err != nil {
		return err
	}

	tasks, err := h.Repo.Tasks().Filter(ctx, user.ID, cond)
	if err != nil {
		return apperr.Wrap(err)
	}
	return ok(c, fiber.Map{"tasks": tasks})
}

const (
	helpText     = "/u · /s <conditions> · /tutorial · /coffee · or enter a task batch"
	tutorialText = "indent tasks to declare dependencies; attributes: * #id $weight @assign -deadline startable- [joint joint]"
)

// GetHome is GET /api/home[?option=]: the scheduled view of the user's
// live tasks, served from cache when available.
func (h *Handlers) GetHome(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	user, err := h.Repo.Users().Find(ctx, userID)
	if err != nil {
		return apperr.Wrap(err)
	}
	if user == nil {
		return apperr.NewUnauthorized()
	}

	option := c.Query("option")

	if h.Cache != nil && option == "" {
		if results, found := h.Cache.Get(ctx, userID); found {
			return ok(c, fiber.Map{"tasks": results, "cached": true})
		}
	}

	cond := homeCondition(option)
	tasks, err := h.Repo.Tasks().Filter(ctx, userID, cond)
	if err != nil {
		return apperr.Wrap(err)
	}

	if option == "archived" {
		return ok(c, fiber.Map{"tasks": tasks})
	}

	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	arrows, err := h.Repo.Arrows().LoadAmong(ctx, ids)
	if err != nil {
		return apperr.Wrap(err)
	}
	allocations, err := h.Repo.Allocations().Filter(ctx, userID)
	if err != nil {
		return apperr.Wrap(err)
	}

	loc, err := time.LoadLocation(user.TZ)
	if err != nil {
		loc = time.UTC
	}

	results := scheduler.Schedule(tasks, arrows, allocations, loc, time.Now())

	if h.Cache != nil && option == "" {
		_ = h.Cache.Set(ctx, userID, results)
	}

	return ok(c, fiber.Map{"tasks": results})
}

// homeCondition picks the default view (live, non-archived leaves) or
// the option= variant a caller asked for.
func homeCondition(option string) model.Condition {
	t, f := true, false
	switch option {
	case "archived":
		return model.Condition{Archived: &t}
	case "all":
		return model.Condition{Archived: &f}
	default:
		leaf := true
		return model.Condition{Archived: &f, Leaf: &leaf}
	}
}

func (h *Handlers) runUserCommand(ctx context.Context, c *fiber.Ctx, user model.User, req *dsl.ReqUser) error {
	switch req.Kind {
	case dsl.UserInfo:
		return ok(c, fiber.Map{"user": user})

	case dsl.UserSetEmail:
		existing, err := h.Repo.Users().FindByEmail(ctx, req.Email)
		if err != nil {
			return apperr.Wrap(err)
		}
		if existing != nil && existing.ID != user.ID {
			return apperr.NewBadRequest("email already in use")
		}
		if err := h.Repo.Users().Update(ctx, user.ID, repository.UserPatch{Email: &req.Email}); err != nil {
			return apperr.Wrap(err)
		}
		return ok(c, fiber.Map{"email": req.Email})

	case dsl.UserSetName:
		existing, err := h.Repo.Users().FindByName(ctx, req.Name)
		if err != nil {
			return apperr.Wrap(err)
		}
		if existing != nil && existing.ID != user.ID {
			return apperr.NewBadRequest("name already in use")
		}
		if err := h.Repo.Users().Update(ctx, user.ID, repository.UserPatch{Name: &req.Name}); err != nil {
			return apperr.Wrap(err)
		}
		return ok(c, fiber.Map{"name": req.Name})

	case dsl.UserSetPassword:
		if err := bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(req.Password.Old)); err != nil {
			return apperr.NewBadRequest("current password incorrect")
		}
		if req.Password.New != req.Password.Confirm {
			return apperr.NewBadRequest("new password and confirmation do not match")
		}
		cost := h.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password.New), cost)
		if err != nil {
			return apperr.Wrap(err)
		}
		hashStr := string(hashed)
		if err := h.Repo.Users().Update(ctx, user.ID, repository.UserPatch{Hash: &hashStr}); err != nil {
			return apperr.Wrap(err)
		}
		return ok(c, fiber.Map{"message": "password updated"})

	case dsl.UserSetTimescale:
		if err := h.Repo.Users().Update(ctx, user.ID, repository.UserPatch{Timescale: &req.Timescale}); err != nil {
			return apperr.Wrap(err)
		}
		return ok(c, fiber.Map{"timescale": req.Timescale})

	case dsl.UserSetAllocations:
		for _, a := range req.Allocations {
			if !a.Valid() {
				return apperr.NewBadRequest("allocation out of range")
			}
		}
		if err := h.Repo.Allocations().DeleteByOwner(ctx, user.ID); err != nil {
			return apperr.Wrap(err)
		}
		allocs := make([]model.Allocation, len(req.Allocations))
		for i, a := range req.Allocations {
			allocs[i] = model.Allocation{
				Owner: user.ID,
				Open:  time.Date(0, 1, 1, a.OpenHour, a.OpenMinute, 0, 0, time.UTC),
				Hours: a.Hours,
			}
		}
		if err := h.Repo.Allocations().InsertMany(ctx, allocs); err != nil {
			return apperr.Wrap(err)
		}
		if h.Cache != nil {
			_ = h.Cache.Invalidate(ctx, user.ID)
		}
		return created(c, fiber.Map{"allocations": allocs})

	default:
		return apperr.NewBadRequest("unrecognized user command")
	}
}
