package extract_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/ddzz/ember-template-lint/internal/extract"
	"github.com/ddzz/ember-template-lint/internal/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlebarsTemplate = "<div></div>"

const script = "export const SomeComponent = <template>\n" + "<button></button>\n" + "</template>"

const scriptTemplateLiteral = "import { hbs } from 'ember-cli-htmlbars';\n" +
	"      import { setComponentTemplate } from '@ember/component';\n" +
	"      import templateOnly from '@ember/component/template-only';\n" +
	"      export const SomeComponent = setComponentTemplate(hbs`{{book}}`, templateOnly());"

const scriptTemplateLiteralStrictMode = "import { hbs } from 'ember-template-imports';\n" +
	"      import { setComponentTemplate } from '@ember/component';\n" +
	"      import templateOnly from '@ember/component/template-only';\n" +
	"      export const SomeComponent = setComponentTemplate(hbs`{{book}}`, templateOnly());"

const scriptTemplateLiteralStrictModeAliased = "import { hbs as theHbs } from 'ember-template-imports';\n" +
	"      import { setComponentTemplate } from '@ember/component';\n" +
	"      import templateOnly from '@ember/component/template-only';\n" +
	"      export const SomeComponent = setComponentTemplate(theHbs`{{book}}`, templateOnly());"

const typescriptComponent = "import { hbs } from 'ember-cli-htmlbars';\n" +
	"import { setComponentTemplate } from '@ember/component';\n" +
	"import Component from '@glimmer/component';\n" +
	"\n" +
	"interface Args {}\n" +
	"\n" +
	"export class SomeComponent extends Component<Args> {\n" +
	"  <template>\n" +
	"    {{debugger}}\n" +
	"  </template>\n" +
	"}\n"

func wholeFile(source string) []extract.Occurrence {
	return []extract.Occurrence{{
		Content:      source,
		Start:        0,
		End:          0,
		Line:         0,
		Column:       0,
		IsEmbedded:   false,
		IsStrictMode: true,
		Origin:       nil,
	}}
}

func literalOccurrence(tagIdentifier, importPath string, start, matchStart, column int, strict bool) extract.Occurrence {
	return extract.Occurrence{
		Content:      "{{book}}",
		Start:        start,
		End:          start + len("{{book}}"),
		Line:         3,
		Column:       column,
		ColumnUTF16:  column,
		IsEmbedded:   true,
		IsStrictMode: strict,
		Origin: &extract.Origin{
			Kind:                  extract.KindLiteral,
			TagIdentifier:         tagIdentifier,
			ImportIdentifier:      "hbs",
			ImportModuleSpecifier: importPath,
			Content:               "{{book}}",
			DelimiterStart:        extract.Delimiter{Text: tagIdentifier + "`", Capture: tagIdentifier},
			DelimiterEnd:          extract.Delimiter{Text: "`"},
			MatchStart:            matchStart,
			MatchEnd:              start + len("{{book}}") + 1,
		},
	}
}

func scriptOccurrence() extract.Occurrence {
	return extract.Occurrence{
		Content:      "\n<button></button>\n",
		Start:        39,
		End:          58,
		Line:         0,
		Column:       39,
		ColumnUTF16:  39,
		IsEmbedded:   true,
		IsStrictMode: true,
		Origin: &extract.Origin{
			Kind:           extract.KindTag,
			TagIdentifier:  "template",
			Content:        "\n<button></button>\n",
			DelimiterStart: extract.Delimiter{Text: "<template>"},
			DelimiterEnd:   extract.Delimiter{Text: "</template>"},
			MatchStart:     29,
			MatchEnd:       69,
		},
	}
}

func TestExtractTemplatesWithoutPath(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []extract.Occurrence
	}{
		{
			name:   "markup is returned whole",
			source: handlebarsTemplate,
			want:   wholeFile(handlebarsTemplate),
		},
		{
			name:   "template literal that does not require strict mode",
			source: scriptTemplateLiteral,
			want:   []extract.Occurrence{literalOccurrence("hbs", "ember-cli-htmlbars", 230, 226, 60, false)},
		},
		{
			name:   "template literal that requires strict mode",
			source: scriptTemplateLiteralStrictMode,
			want:   []extract.Occurrence{literalOccurrence("hbs", "ember-template-imports", 234, 230, 60, true)},
		},
		{
			name:   "aliased template literal that requires strict mode",
			source: scriptTemplateLiteralStrictModeAliased,
			want:   []extract.Occurrence{literalOccurrence("theHbs", "ember-template-imports", 247, 240, 63, true)},
		},
		{
			name:   "template tag",
			source: script,
			want:   []extract.Occurrence{scriptOccurrence()},
		},
		{
			name:   "mustache-only input parses but holds no embedded templates",
			source: "{{book}}",
			want:   wholeFile("{{book}}"),
		},
		{
			name:   "empty input",
			source: "",
			want:   wholeFile(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract.ExtractTemplates(tt.source, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTemplatesWithPath(t *testing.T) {
	tests := []struct {
		name         string
		source       string
		relativePath string
		want         []extract.Occurrence
	}{
		{
			name:         "template file is returned whole",
			source:       handlebarsTemplate,
			relativePath: "layout.hbs",
			want:         wholeFile(handlebarsTemplate),
		},
		{
			name:         "template file is returned whole even if it looks like a script",
			source:       script,
			relativePath: "app/templates/application.hbs",
			want:         wholeFile(script),
		},
		{
			name:         "script file is parsed",
			source:       script,
			relativePath: "app/components/some-component.gjs",
			want:         []extract.Occurrence{scriptOccurrence()},
		},
		{
			name:         "typescript script file is parsed",
			source:       scriptTemplateLiteralStrictModeAliased,
			relativePath: "app/components/some-component.ts",
			want:         []extract.Occurrence{literalOccurrence("theHbs", "ember-template-imports", 247, 240, 63, true)},
		},
		{
			name:         "script without templates yields nothing",
			source:       "export const answer = 42;\n",
			relativePath: "app/utils/answer.js",
			want:         []extract.Occurrence{},
		},
		{
			name:         "unparseable script falls back to the whole file",
			source:       "export default <template>{{x}}",
			relativePath: "app/components/broken.gjs",
			want:         wholeFile("export default <template>{{x}}"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract.ExtractTemplates(tt.source, tt.relativePath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractResultVariants(t *testing.T) {
	result, err := extract.Extract(handlebarsTemplate, "")
	require.NoError(t, err)
	whole, ok := result.(extract.WholeFile)
	require.True(t, ok, "expected WholeFile, got %T", result)
	assert.Equal(t, handlebarsTemplate, whole.Source)

	result, err = extract.Extract(script, "")
	require.NoError(t, err)
	embedded, ok := result.(extract.Embedded)
	require.True(t, ok, "expected Embedded, got %T", result)
	assert.Len(t, embedded.Occurrences, 1)

	result, err = extract.Extract("const a = 1;", "a.js")
	require.NoError(t, err)
	embedded, ok = result.(extract.Embedded)
	require.True(t, ok, "expected Embedded, got %T", result)
	assert.NotNil(t, embedded.Templates())
	assert.Empty(t, embedded.Templates())
}

func TestExtractTypeScriptClass(t *testing.T) {
	got, err := extract.ExtractTemplates(typescriptComponent, "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	occ := got[0]
	assert.Equal(t, "\n    {{debugger}}\n  ", occ.Content)
	assert.Equal(t, 228, occ.Start)
	assert.Equal(t, 7, occ.Line)
	assert.Equal(t, 12, occ.Column)
	assert.True(t, occ.IsEmbedded)
	assert.True(t, occ.IsStrictMode)
	assert.Equal(t, extract.KindTag, occ.Origin.Kind)
}

func TestExtractSiblingsAreOrderedAndDisjoint(t *testing.T) {
	source := "import { hbs } from 'ember-cli-htmlbars';\n" +
		"import { hbs as strict } from 'ember-template-imports';\n" +
		"export const A = <template>a</template>;\n" +
		"export const B = hbs`b`;\n" +
		"export const C = strict`c`;\n" +
		"export const D = <template>d</template>;\n"

	got, err := extract.ExtractTemplates(source, "app/components/siblings.gjs")
	require.NoError(t, err)
	require.Len(t, got, 4)

	wantContent := []string{"a", "b", "c", "d"}
	wantStrict := []bool{true, false, true, true}
	for i, occ := range got {
		assert.Equal(t, wantContent[i], occ.Content)
		assert.Equal(t, wantStrict[i], occ.IsStrictMode, "occurrence %d", i)
		assert.Equal(t, i+2, occ.Line)
		assert.Equal(t, occ.Content, source[occ.Start:occ.End])
		assert.Equal(t, position.CoordinatesOf(source, occ.Start), position.Coordinates{Line: occ.Line, Column: occ.Column})
		if i > 0 {
			assert.Greater(t, occ.Start, got[i-1].End)
		}
	}
}

func TestExtractUTF16Column(t *testing.T) {
	source := "import { hbs } from 'ember-template-imports';\nconst 颜色 = hbs`{{x}}`;"

	got, err := extract.ExtractTemplates(source, "a.ts")
	require.NoError(t, err)
	require.Len(t, got, 1)
	// "const 颜色 = hbs`" is 6 + 6 + 3 + 4 bytes but 6 + 2 + 3 + 4 UTF-16 units
	assert.Equal(t, 19, got[0].Column)
	assert.Equal(t, 15, got[0].ColumnUTF16)
}

func TestExtractIsIdempotent(t *testing.T) {
	for _, source := range []string{handlebarsTemplate, script, scriptTemplateLiteral, typescriptComponent} {
		first, err := extract.ExtractTemplates(source, "")
		require.NoError(t, err)
		second, err := extract.ExtractTemplates(source, "")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestExtractConcurrently(t *testing.T) {
	want, err := extract.ExtractTemplates(scriptTemplateLiteralStrictModeAliased, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := extract.ExtractTemplates(scriptTemplateLiteralStrictModeAliased, "")
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestExtractMalformedInput(t *testing.T) {
	got, err := extract.ExtractTemplates("const a = '\xff';", "a.js")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, extract.ErrMalformedInput))
	assert.Contains(t, err.Error(), "a.js")
}

func TestOccurrenceJSON(t *testing.T) {
	t.Run("whole file omits embedding fields", func(t *testing.T) {
		got, err := extract.ExtractTemplates(handlebarsTemplate, "layout.hbs")
		require.NoError(t, err)

		data, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, `[{
			"content": "<div></div>",
			"start": 0,
			"end": 0,
			"line": 0,
			"column": 0,
			"columnUTF16": 0,
			"isStrictMode": true
		}]`, string(data))
	})

	t.Run("template tag", func(t *testing.T) {
		got, err := extract.ExtractTemplates(script, "")
		require.NoError(t, err)

		data, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, `[{
			"content": "\n<button></button>\n",
			"start": 39,
			"end": 58,
			"line": 0,
			"column": 39,
			"columnUTF16": 39,
			"isEmbedded": true,
			"isStrictMode": true,
			"originInfo": {
				"kind": "tag",
				"tagIdentifier": "template",
				"content": "\n<button></button>\n",
				"delimiterStart": {"text": "<template>"},
				"delimiterEnd": {"text": "</template>"},
				"matchStart": 29,
				"matchEnd": 69
			}
		}]`, string(data))
	})
}

func TestCoordinatesOf(t *testing.T) {
	assert.Equal(t, position.Coordinates{Line: 7, Column: 12}, extract.CoordinatesOf(typescriptComponent, 228))
	assert.Equal(t, position.Coordinates{Line: 0, Column: 0}, extract.CoordinatesOf(typescriptComponent, 0))
}

func TestExtractScriptsWithUnusualSyntax(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "postfix increment before division",
			source: "import { hbs } from 'ember-cli-htmlbars';\nlet i = 0; let y = i++ / 2;\nconst x = hbs`b`;\n",
		},
		{
			name:   "regex after if condition",
			source: "import { hbs } from 'ember-cli-htmlbars';\nif (a) /x'/.test(b);\nconst x = hbs`b`;\n",
		},
		{
			name:   "apostrophe in markup text",
			source: "import { hbs } from 'ember-cli-htmlbars';\nconst a = <div>It's</div>;\nconst x = hbs`b`;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract.ExtractTemplates(tt.source, "app/components/a.gjs")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.True(t, got[0].IsEmbedded)
			assert.Equal(t, "b", got[0].Content)
			assert.Equal(t, 2, got[0].Line)
			assert.Equal(t, extract.KindLiteral, got[0].Origin.Kind)
		})
	}
}

func TestExtractMarkupWithoutPathIsNotRescanned(t *testing.T) {
	source := "<p>It's {{name}}</p>"

	got, err := extract.ExtractTemplates(source, "")
	require.NoError(t, err)
	assert.Equal(t, wholeFile(source), got)
}
