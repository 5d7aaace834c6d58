package provider

import (
	"errors"
	"io/fs"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every account environment variable,
// e.g. QCGRADER_TOKEN or QCGRADER_HUB.
const EnvPrefix = "QCGRADER"

// DefaultURL is the authentication endpoint of the quantum service.
const DefaultURL = "https://auth.quantum-computing.ibm.com/api"

// Account holds the credentials and project scope used to reach the service.
type Account struct {
	Token   string        `envconfig:"TOKEN" json:"-"`
	URL     string        `envconfig:"URL" default:"https://auth.quantum-computing.ibm.com/api" json:"url"`
	Hub     string        `envconfig:"HUB" default:"ibm-q" json:"hub"`
	Group   string        `envconfig:"GROUP" default:"open" json:"group"`
	Project string        `envconfig:"PROJECT" default:"main" json:"project"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s" json:"timeout"`
}

// Validate implements validation.Validatable.
func (a Account) Validate() error {
	err := validation.ValidateStruct(&a,
		validation.Field(&a.Token, validation.Required),
		validation.Field(&a.URL, validation.Required, is.URL),
		validation.Field(&a.Hub, validation.Required),
		validation.Field(&a.Group, validation.Required),
		validation.Field(&a.Project, validation.Required),
		validation.Field(&a.Timeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid account")
	}
	return nil
}

// LoadAccount reads the account from the environment. Each env file is loaded
// first without overriding variables that are already set; missing files are
// ignored. With no files, .env in the working directory is tried.
func LoadAccount(envFiles ...string) (Account, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Account{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "cannot read env file")
	}

	var acct Account
	if err := envconfig.Process(EnvPrefix, &acct); err != nil {
		return Account{}, goerrors.Wrap(err, goerrors.CategoryValidation, "cannot parse account environment")
	}

	if acct.Token == "" {
		return Account{}, goerrors.Wrap(ErrNoAccount, goerrors.CategoryAuth,
			"set "+EnvPrefix+"_TOKEN or add it to a .env file")
	}
	if err := acct.Validate(); err != nil {
		return Account{}, err
	}
	return acct, nil
}
