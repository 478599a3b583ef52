package commands

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/sqlinterp/query"
)

// Clause is a template with its arguments. In YAML it is either a plain
// string or a mapping with sql and args keys.
type Clause struct {
	SQL  string `yaml:"sql"`
	Args []any  `yaml:"args"`
}

// UnmarshalYAML accepts the plain string form.
func (c *Clause) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.SQL = node.Value
		return nil
	}
	type plain Clause
	return node.Decode((*plain)(c))
}

// Limit is the paging window of a job.
type Limit struct {
	Offset int `yaml:"offset"`
	Rows   int `yaml:"rows"`
}

// Job describes one statement.
type Job struct {
	Base     *Clause  `yaml:"base"`
	Distinct bool     `yaml:"distinct"`
	Select   []Clause `yaml:"select"`
	From     []Clause `yaml:"from"`
	Joins    []Clause `yaml:"joins"`
	Where    []Clause `yaml:"where"`
	GroupBy  []Clause `yaml:"group_by"`
	Having   []Clause `yaml:"having"`
	OrderBy  []Clause `yaml:"order_by"`
	Limit    *Limit   `yaml:"limit"`
}

// LoadJob reads a job from a YAML file.
func LoadJob(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, err
	}
	return ParseJob(data)
}

// ParseJob reads a job from YAML data.
func ParseJob(data []byte) (Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return Job{}, errors.Wrap(err, "parse job")
	}
	return job, nil
}

// Builder creates the query builder the job describes.
func (j Job) Builder(opts ...query.Option) *query.Builder {
	b := query.New(opts...)
	if j.Base != nil {
		b.Base(j.Base.SQL, j.Base.Args...)
	}

	selectFn := b.Select
	if j.Distinct {
		selectFn = b.SelectDistinct
	}
	clauses := []struct {
		items []Clause
		add   func(string, ...any) *query.Builder
	}{
		{j.Select, selectFn},
		{j.From, b.From},
		{j.Joins, b.Join},
		{j.Where, b.Where},
		{j.GroupBy, b.GroupBy},
		{j.Having, b.Having},
		{j.OrderBy, b.OrderBy},
	}
	for _, c := range clauses {
		for _, item := range c.items {
			c.add(item.SQL, item.Args...)
		}
	}

	if j.Limit != nil {
		b.Limit(j.Limit.Offset, j.Limit.Rows)
	}
	return b
}
