package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/notaris/notaris/internal/file"
)

type config struct {
	APIAddress   string `json:"apiAddress"`
	FileBaseURL  string `json:"fileBaseURL,omitempty"`
	CookieHeader string `json:"cookieHeader,omitempty"`
}

func getConfig() (*config, error) {
	notarisHome, err := getNotarisHome()
	if err != nil {
		return nil, errors.Wrap(err, "error finding notaris home")
	}
	notarisConfigFile := path.Join(notarisHome, "config")
	if !file.Exists(notarisConfigFile) {
		return nil, errors.Errorf(
			"no notaris configuration was found at %s; please use "+
				"`notaris login` to continue\n",
			notarisConfigFile,
		)
	}

	configBytes, err := ioutil.ReadFile(notarisConfigFile)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error reading notaris config file at %s",
			notarisConfigFile,
		)
	}

	config := &config{}
	if err := json.Unmarshal(configBytes, config); err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing notaris config file at %s",
			notarisConfigFile,
		)
	}

	return config, nil
}

func saveConfig(config *config) error {
	notarisHome, err := getNotarisHome()
	if err != nil {
		return errors.Wrap(err, "error finding notaris home")
	}
	if _, err := os.Stat(notarisHome); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(
				err,
				"error checking for existence of notaris home at %s",
				notarisHome,
			)
		}
		// The directory doesn't exist-- create it
		if err := os.MkdirAll(notarisHome, 0755); err != nil {
			return errors.Wrapf(
				err,
				"error creating notaris home at %s",
				notarisHome,
			)
		}
	}
	notarisConfigFile := path.Join(notarisHome, "config")

	configBytes, err := json.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}
	if err :=
		ioutil.WriteFile(notarisConfigFile, configBytes, 0600); err != nil {
		return errors.Wrapf(err, "error writing to %s", notarisConfigFile)
	}
	return nil
}

func deleteConfig() error {
	notarisHome, err := getNotarisHome()
	if err != nil {
		return errors.Wrap(err, "error finding notaris home")
	}
	notarisConfigFile := path.Join(notarisHome, "config")

	if err := os.Remove(notarisConfigFile); err != nil {
		return errors.Wrap(err, "error deleting configuration")
	}

	return nil
}

func getNotarisHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}

	return path.Join(homeDir, ".notaris"), nil
}

func getCredentialsDir() (string, error) {
	notarisHome, err := getNotarisHome()
	if err != nil {
		return "", err
	}
	return path.Join(notarisHome, "credentials"), nil
}
