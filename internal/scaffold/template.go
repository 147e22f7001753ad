// Package scaffold holds the static templates for a BioScout development
// environment and the steps that put them on disk.
package scaffold

// EnvFileName is the environment template written at the project root.
const EnvFileName = ".env"

// Placeholder credential keys read by the BioScout app at startup.
const (
	OpenAIKeyName        = "OPENAI_API_KEY"
	INaturalistTokenName = "INATURALIST_API_TOKEN"
)

// Placeholder values. The app treats these as "no key configured".
const (
	OpenAIKeyPlaceholder        = "your_openai_api_key_here"
	INaturalistTokenPlaceholder = "your_inaturalist_api_token_here"
)

// EnvTemplate is the exact content of the generated .env file.
const EnvTemplate = OpenAIKeyName + "=" + OpenAIKeyPlaceholder + "\n" +
	INaturalistTokenName + "=" + INaturalistTokenPlaceholder + "\n"

// EnvVar is one NAME=value line of the environment template.
type EnvVar struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// DefaultEnvVars returns the template entries in file order.
func DefaultEnvVars() []EnvVar {
	return []EnvVar{
		{Name: OpenAIKeyName, Value: OpenAIKeyPlaceholder},
		{Name: INaturalistTokenName, Value: INaturalistTokenPlaceholder},
	}
}

// RenderEnv renders vars as NAME=value lines, one per entry, in order.
func RenderEnv(vars []EnvVar) string {
	var out []byte
	for _, v := range vars {
		out = append(out, v.Name...)
		out = append(out, '=')
		out = append(out, v.Value...)
		out = append(out, '\n')
	}
	return string(out)
}

// ReadmeFileName is the usage document written at the project root.
const ReadmeFileName = "README.md"

// ReadmeTemplate is the exact content of the generated README.md.
const ReadmeTemplate = `# BioScout Islamabad

Community biodiversity observations for Islamabad and the Margalla Hills:
upload a photo, get a species suggestion, and ask questions about local
wildlife.

## Setup

1. Run ` + "`bioscout-setup init`" + ` in the project root. It writes ` + "`.env`" + `,
   creates the data directories, and downloads a few sample images.
2. Edit ` + "`.env`" + ` and replace the placeholder values:
   - ` + "`OPENAI_API_KEY`" + `: key for species identification and Q&A.
   - ` + "`INATURALIST_API_TOKEN`" + `: token for the iNaturalist API
     (https://api.inaturalist.org/v1).
3. Run ` + "`bioscout-setup doctor`" + ` to check the environment.

Without a valid OpenAI key the app runs in fallback mode and returns
canned identifications.

## Layout

- ` + "`static/uploads/`" + `: user-uploaded photos (png, jpg, jpeg, gif, 16 MB max).
- ` + "`static/samples/`" + `: sample images for trying the identifier.
- ` + "`data/observations/`" + `: stored observations.
- ` + "`data/knowledge/`" + `: knowledge base documents used to answer questions.

If ` + "`curl`" + ` is not installed the sample images are skipped; download
a few JPEGs of local species into ` + "`static/samples/`" + ` by hand.
`
