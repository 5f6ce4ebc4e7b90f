package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Token    string   `env:"FACTS_TELEGRAM_TOKEN,required,notEmpty"`
	OwnerID  int64    `env:"FACTS_TELEGRAM_OWNER_ID"`
	Enabled  bool     `env:"FACTS_ENABLE_TELEGRAM"`
	Topics   []string `env:"FACTS_TOPICS"`
	Greeting string   `env:"FACTS_GREETING"`
	Skipped  string   `env:"FACTS_EMPTY"`
	NoTag    string
	private  string `env:"FACTS_PRIVATE"`
}

func TestMarshalEnv(t *testing.T) {
	out, err := MarshalEnv(&sample{
		Token:    "123:abc",
		OwnerID:  42,
		Enabled:  true,
		Topics:   []string{"history", "music"},
		Greeting: "good morning",
		NoTag:    "ignored",
		private:  "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"FACTS_TELEGRAM_TOKEN=123:abc\n"+
			"FACTS_TELEGRAM_OWNER_ID=42\n"+
			"FACTS_ENABLE_TELEGRAM=true\n"+
			"FACTS_TOPICS=history,music\n"+
			"FACTS_GREETING=\"good morning\"\n",
		out)
}

func TestMarshalEnv_Empty(t *testing.T) {
	out, err := MarshalEnv(&sample{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMarshalEnv_RejectsNonStruct(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)
}
