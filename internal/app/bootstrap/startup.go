// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/jmoreland/peopledesk/internal/app/resources"
	accountstore "github.com/jmoreland/peopledesk/internal/app/store/accounts"
	membershipstore "github.com/jmoreland/peopledesk/internal/app/store/memberships"
	oauthstatestore "github.com/jmoreland/peopledesk/internal/app/store/oauthstate"
	"github.com/jmoreland/peopledesk/internal/app/system/normalize"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to load shared resources (like templates), warm caches, or perform
// any app-wide setup that depends on config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if appCfg.BootstrapHRAdminEmail != "" {
		if err := ensureBootstrapAdmin(ctx, deps, appCfg.BootstrapHRAdminEmail, logger); err != nil {
			return fmt.Errorf("bootstrap hr_admin: %w", err)
		}
	}

	// Sweep any OAuth state rows left behind before the TTL index existed.
	if removed, err := oauthstatestore.New(deps.MongoDatabase).CleanupExpired(ctx); err != nil {
		logger.Warn("oauth state cleanup failed", zap.Error(err))
	} else if removed > 0 {
		logger.Info("removed expired oauth state rows", zap.Int64("count", removed))
	}

	return nil
}

// ensureBootstrapAdmin guarantees the configured operator can administer
// their organization: the account is created if missing (they sign in with
// Google the first time), and their first membership, if any, is promoted to
// hr_admin. Members without a membership are left to go through onboarding,
// which makes them hr_admin of the org they create.
func ensureBootstrapAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	email = normalize.Email(email)
	accounts := accountstore.New(deps.MongoDatabase)
	memberships := membershipstore.New(deps.MongoDatabase)

	acct, err := accounts.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		acct, err = accounts.UpsertOAuth(ctx, email)
		if err != nil {
			return err
		}
		logger.Info("created bootstrap hr_admin account", zap.String("email", email))
	} else if err != nil {
		return err
	}

	rows, err := memberships.ListForUser(ctx, acct.ID.Hex())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		logger.Info("bootstrap hr_admin has no membership yet; onboarding will grant hr_admin",
			zap.String("email", email))
		return nil
	}

	first := rows[0]
	if first.Role == roles.HRAdmin {
		return nil
	}
	if err := memberships.SetRole(ctx, first.UserID, first.OrganizationID, roles.HRAdmin); err != nil {
		return err
	}
	logger.Info("promoted bootstrap account to hr_admin",
		zap.String("email", email),
		zap.String("org_id", first.OrganizationID.Hex()))
	return nil
}
