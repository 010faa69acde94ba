package locator

import (
	"regexp"

	"fundix_e2e/domain/entities"
)

// Contains finds elements in scope whose text contains text
func Contains(scope, text string) entities.Locator {
	return entities.Locator{
		Name:  text,
		Rules: []entities.Rule{{Strategy: entities.StrategyTextContains, Pattern: text, Scope: scope}},
	}
}

// Exact finds elements in scope whose trimmed text equals text
func Exact(scope, text string) entities.Locator {
	return entities.Locator{
		Name:  text,
		Rules: []entities.Rule{{Strategy: entities.StrategyTextExact, Pattern: text, Scope: scope}},
	}
}

// Matches finds elements in scope whose text matches re
func Matches(scope string, re *regexp.Regexp) entities.Locator {
	return entities.Locator{
		Name:  re.String(),
		Rules: []entities.Rule{{Strategy: entities.StrategyTextRegex, Pattern: re.String(), Scope: scope}},
	}
}

// ClassFragment finds elements whose class or data-testid contains fragment
func ClassFragment(fragment string) entities.Locator {
	return entities.Locator{
		Name:  fragment,
		Rules: []entities.Rule{{Strategy: entities.StrategyCSSFragment, Pattern: fragment}},
	}
}

// CSS finds elements by selector
func CSS(selector string) entities.Locator {
	return entities.Locator{
		Name:  selector,
		Rules: []entities.Rule{{Strategy: entities.StrategyCSS, Pattern: selector}},
	}
}

// DocumentText finds the deepest elements anywhere in the document matching re
func DocumentText(re *regexp.Regexp) entities.Locator {
	return entities.Locator{
		Name:  re.String(),
		Rules: []entities.Rule{{Strategy: entities.StrategyDocumentText, Pattern: re.String()}},
	}
}

// Or merges the rules of several locators under one name.
// Precedence still decides the evaluation order, not argument order.
func Or(name string, locs ...entities.Locator) entities.Locator {
	out := entities.Locator{Name: name}
	for _, l := range locs {
		out.Rules = append(out.Rules, l.Rules...)
		if l.Timeout > out.Timeout {
			out.Timeout = l.Timeout
		}
		out.Optional = out.Optional || l.Optional
	}
	return out
}
