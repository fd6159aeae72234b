package app

import (
	"errors"
	"strings"
	"time"

	"github.com/Egor213/LogBoard/migrations"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

const (
	defaultAttempts = 10
	defaultTimeout  = time.Second
)

func Migrate(pgUrl string, attempts int) error {
	if !strings.Contains(pgUrl, "sslmode=") {
		sep := "?"
		if strings.Contains(pgUrl, "?") {
			sep = "&"
		}
		pgUrl += sep + "sslmode=disable"
	}
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}

	var mgrt *migrate.Migrate
	for attempts > 0 {
		mgrt, err = migrate.NewWithSourceInstance("iofs", source, pgUrl)
		if err == nil {
			break
		}

		time.Sleep(defaultTimeout)
		attempts--
		log.Infof("Postgres trying to connect, attempts left: %d", attempts)
	}

	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	defer mgrt.Close()

	err = mgrt.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("Migration no change")
		return nil
	}
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}

	log.Info("Migration successful up")
	return nil
}
