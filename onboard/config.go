package onboard

import (
	"io/ioutil"

	"github.com/codebotair/codebot/onboard/hardware"
	"gopkg.in/yaml.v2"
)

type CodebotConfig struct {
	Version string
	Serial  struct {
		Port string
		Baud int
	}
	Motors struct {
		Left  hardware.PinConfig
		Right hardware.PinConfig
	}
}

// LoadConfig reads and parses the yaml device description.
func LoadConfig(filename string) (config CodebotConfig, err error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return
	}

	err = yaml.Unmarshal(raw, &config)
	return
}
