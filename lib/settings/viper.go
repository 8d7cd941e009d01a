package settings

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

func ReadConfig(jsonStr string) (*Settings, error) {
	viper.SetConfigName("settings")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("seqfield")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if jsonStr != "" {
		if err := viper.ReadConfig(strings.NewReader(jsonStr)); err != nil {
			return nil, err
		}
	} else {
		if err := viper.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, err
			}
			// no config file is fine, defaults apply
		}
	}

	viper.SetDefault(CellOrderingKey, "tombstone")
	viper.SetDefault(CodecVersionKey, 1)
	viper.SetDefault(DBTypeKey, MEMORY)
	viper.SetDefault(DBPathKey, "var/seqfield.db")
	viper.SetDefault(LogLevelKey, "INFO")

	ordering, err := ParseCellOrdering(viper.GetString(CellOrderingKey))
	if err != nil {
		return nil, err
	}

	dbTypeToUse, err := ParseDBType(viper.GetString(DBTypeKey))
	if err != nil {
		return nil, err
	}

	s := &Settings{
		CellOrdering: ordering,
		CodecVersion: viper.GetInt(CodecVersionKey),
		DBType:       dbTypeToUse,
		DBPath:       viper.GetString(DBPathKey),
		LogLevel:     viper.GetString(LogLevelKey),
	}

	return s, nil
}
