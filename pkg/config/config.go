/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

type Config struct {
	LogLevel string `json:"log_level,omitempty"`
	// Address and Port are used both by the API server for binding
	// and by the API client for building request URLs.
	Address string `json:"address,omitempty"`
	Port    int    `json:"port,omitempty"`
	// DBPath is the location of the recording catalog database
	DBPath string `json:"db_path,omitempty"`

	filepath string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(c.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Load reads the persisted config if it exists. A missing config file is
// not an error, the defaults are kept in that case.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func ConfigHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir)
}

func DefaultConfigPath() string {
	return filepath.Join(ConfigHome(), ConfigFile)
}

func DefaultDBPath() string {
	return filepath.Join(ConfigHome(), CatalogDBFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Address:  DefaultAddress,
		Port:     DefaultPort,
		DBPath:   DefaultDBPath(),
		filepath: DefaultConfigPath(),
	}
}
