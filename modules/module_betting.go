package modules

import (
	"github.com/lunardini/totobot/modules/betting"
)

func init() {
	Add(&betting.Module{})
}
