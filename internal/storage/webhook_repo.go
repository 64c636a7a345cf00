package storage

import (
	"sort"

	"github.com/stillpoint/breathe/internal/errors"
	"github.com/stillpoint/breathe/internal/model"
)

// WebhookRepo provides operations for Webhook entities.
type WebhookRepo struct {
	db *DB
}

// NewWebhookRepo creates a new webhook repository.
func NewWebhookRepo(db *DB) *WebhookRepo {
	return &WebhookRepo{db: db}
}

// Create stores a new webhook. Names are unique.
func (r *WebhookRepo) Create(webhook *model.Webhook) error {
	exists, err := r.db.Exists(model.GenerateWebhookKey(webhook.Name))
	if err != nil {
		return err
	}
	if exists {
		return errors.NewUserError("webhook already exists", "use a different name or remove the existing webhook")
	}
	webhook.Key = model.GenerateWebhookKey(webhook.Name)
	return r.db.Set(webhook)
}

// Get retrieves a webhook by name.
func (r *WebhookRepo) Get(name string) (*model.Webhook, error) {
	webhook := &model.Webhook{}
	if err := r.db.Get(model.GenerateWebhookKey(name), webhook); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.ErrWebhookNotFound
		}
		return nil, err
	}
	return webhook, nil
}

// Update stores changes to an existing webhook.
func (r *WebhookRepo) Update(webhook *model.Webhook) error {
	exists, err := r.db.Exists(webhook.Key)
	if err != nil {
		return err
	}
	if !exists {
		return errors.ErrWebhookNotFound
	}
	return r.db.Set(webhook)
}

// Delete removes a webhook by name.
func (r *WebhookRepo) Delete(name string) error {
	exists, err := r.db.Exists(model.GenerateWebhookKey(name))
	if err != nil {
		return err
	}
	if !exists {
		return errors.ErrWebhookNotFound
	}
	return r.db.Delete(model.GenerateWebhookKey(name))
}

// List retrieves all webhooks, sorted by name.
func (r *WebhookRepo) List() ([]*model.Webhook, error) {
	webhooks, err := GetAllByPrefix(r.db, model.PrefixWebhook+":", func() *model.Webhook {
		return &model.Webhook{}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(webhooks, func(i, j int) bool {
		return webhooks[i].Name < webhooks[j].Name
	})
	return webhooks, nil
}

// ListEnabled retrieves webhooks that should receive notifications.
func (r *WebhookRepo) ListEnabled() ([]*model.Webhook, error) {
	return GetFilteredByPrefix(r.db, model.PrefixWebhook+":", func() *model.Webhook {
		return &model.Webhook{}
	}, func(w *model.Webhook) bool {
		return w.Enabled
	}, 0)
}
