package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/leapstack-labs/mealplan/pkg/core"
)

// promptSelector asks the user for each slot of the week. It re-prompts
// until the answer is one of the candidates.
type promptSelector struct {
	shell *Shell
}

func (p *promptSelector) Select(_ context.Context, day core.Day, category core.Category, candidates []string) (string, error) {
	s := p.shell
	if category == core.Categories()[0] {
		s.println(day)
	}
	for _, name := range candidates {
		s.println(name)
	}
	s.println()

	for {
		s.println(fmt.Sprintf(msgChooseMeal, category, day))
		choice, err := s.readLine()
		if err != nil {
			return "", err
		}
		if slices.Contains(candidates, choice) {
			return choice, nil
		}
		s.println(msgNoSuchMeal)
	}
}

func (p *promptSelector) DayPlanned(day core.Day, _ map[core.Category]string) {
	p.shell.println(fmt.Sprintf(msgDayPlanned, day))
}
