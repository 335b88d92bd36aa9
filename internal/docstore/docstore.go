// Package docstore is the Firestore session and profile store.
//
// Layout: users/{uid} holds the profile, users/{uid}/sessions/{date}_{plan}
// holds one workout session.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/claude/fitstreak/internal/models"
	"github.com/claude/fitstreak/internal/tracker"
)

const (
	usersCollection    = "users"
	sessionsCollection = "sessions"
)

// Store implements tracker.Store on Firestore.
type Store struct {
	Client *firestore.Client
}

var _ tracker.Store = (*Store)(nil)

// New opens a Firestore client for projectID.
// FIRESTORE_EMULATOR_HOST is honoured by the client library.
func New(ctx context.Context, projectID string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &Store{Client: client}, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.Client.Close()
}

func (s *Store) user(userID string) *firestore.DocumentRef {
	return s.Client.Collection(usersCollection).Doc(userID)
}

func (s *Store) session(key models.SessionKey) *firestore.DocumentRef {
	return s.user(key.UserID).Collection(sessionsCollection).Doc(sessionDocID(key))
}

// sessionDocID is the document key of a session: {date}_{plan}.
func sessionDocID(key models.SessionKey) string {
	plan := key.PlanID
	if plan == "" {
		plan = models.DefaultPlanID
	}
	return key.Date + "_" + plan
}

// SaveSession overwrites the session document at key.
func (s *Store) SaveSession(ctx context.Context, key models.SessionKey, session models.WorkoutSession) error {
	session.Date, session.PlanID = key.Date, key.PlanID
	data := sessionToFirestore(session)
	data["updated_at"] = firestore.ServerTimestamp
	if _, err := s.session(key).Set(ctx, data); err != nil {
		return fmt.Errorf("setting session %s: %w", sessionDocID(key), err)
	}
	return nil
}

// GetSession reads the session document at key.
func (s *Store) GetSession(ctx context.Context, key models.SessionKey) (models.WorkoutSession, error) {
	snap, err := s.session(key).Get(ctx)
	if err != nil {
		return models.WorkoutSession{}, notFound(err)
	}
	return firestoreToSession(snap.Data()), nil
}

// UpdateSession applies u inside a transaction so concurrent updates do not interleave.
func (s *Store) UpdateSession(ctx context.Context, key models.SessionKey, u models.SessionUpdate) (models.WorkoutSession, error) {
	ref := s.session(key)
	var updated models.WorkoutSession
	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		updated = u.Apply(firestoreToSession(snap.Data()))
		return tx.Update(ref, sessionUpdates(u))
	})
	if err != nil {
		return models.WorkoutSession{}, notFound(err)
	}
	return updated, nil
}

// ListSessions queries a user's sessions with from <= date < to.
func (s *Store) ListSessions(ctx context.Context, userID, from, to string) ([]models.WorkoutSession, error) {
	q := s.user(userID).Collection(sessionsCollection).Query
	if from != "" {
		q = q.Where("date", ">=", from)
	}
	if to != "" {
		q = q.Where("date", "<", to)
	}
	iter := q.OrderBy("date", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	result := []models.WorkoutSession{}
	for {
		d, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("querying sessions: %w", err)
		}
		result = append(result, firestoreToSession(d.Data()))
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].PlanID < result[j].PlanID
	})
	return result, nil
}

// GetProfile reads users/{uid}.
func (s *Store) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	snap, err := s.user(userID).Get(ctx)
	if err != nil {
		return models.UserProfile{}, notFound(err)
	}
	p := firestoreToProfile(snap.Data())
	p.ID = userID
	return p, nil
}

// SaveProfile merges the editable profile fields, stamping created_at on first save.
func (s *Store) SaveProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	ref := s.user(p.ID)
	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		data := profileToFirestore(p)
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if snap == nil || !snap.Exists() {
			data["created_at"] = firestore.ServerTimestamp
			data["last_login"] = firestore.ServerTimestamp
		}
		return tx.Set(ref, data, firestore.MergeAll)
	})
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("saving profile %s: %w", p.ID, err)
	}
	return s.GetProfile(ctx, p.ID)
}

// TouchLogin creates users/{uid} on first login and bumps last_login.
func (s *Store) TouchLogin(ctx context.Context, userID, displayName string) (models.UserProfile, error) {
	ref := s.user(userID)
	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if snap == nil || !snap.Exists() {
			return tx.Set(ref, map[string]interface{}{
				"name":       displayName,
				"created_at": firestore.ServerTimestamp,
				"last_login": firestore.ServerTimestamp,
			})
		}
		updates := []firestore.Update{{Path: "last_login", Value: firestore.ServerTimestamp}}
		if displayName != "" {
			updates = append(updates, firestore.Update{Path: "name", Value: displayName})
		}
		return tx.Update(ref, updates)
	})
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("touching user %s: %w", userID, err)
	}
	return s.GetProfile(ctx, userID)
}

func notFound(err error) error {
	if status.Code(err) == codes.NotFound || errors.Is(err, tracker.ErrNotFound) {
		return tracker.ErrNotFound
	}
	return err
}
