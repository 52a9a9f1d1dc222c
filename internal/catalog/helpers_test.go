package catalog

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// xcodeCatalog is a catalog in the layout Xcode writes.
const xcodeCatalog = `{
  "sourceLanguage" : "en",
  "strings" : {
    "goodbye" : {
      "comment" : "Farewell",
      "localizations" : {
        "en" : {
          "stringUnit" : {
            "state" : "translated",
            "value" : "Goodbye"
          }
        },
        "fr" : {
          "stringUnit" : {
            "state" : "translated",
            "value" : "Au revoir"
          }
        }
      }
    },
    "hello" : {
      "localizations" : {
        "en" : {
          "stringUnit" : {
            "state" : "translated",
            "value" : "Hello"
          }
        }
      }
    }
  },
  "version" : "1.0"
}`

// substitutionsCatalog carries members the document model does not
// interpret: isCommentAutoGenerated on the entry and substitutions on a
// localization.
const substitutionsCatalog = `{
  "sourceLanguage" : "en",
  "strings" : {
    "%lld items" : {
      "comment" : "Item count",
      "isCommentAutoGenerated" : true,
      "localizations" : {
        "en" : {
          "stringUnit" : {
            "state" : "new",
            "value" : "%#@items@"
          },
          "substitutions" : {
            "items" : {
              "argNum" : 1,
              "formatSpecifier" : "lld",
              "variations" : {
                "plural" : {
                  "one" : {
                    "stringUnit" : {
                      "state" : "new",
                      "value" : "%arg item"
                    }
                  },
                  "other" : {
                    "stringUnit" : {
                      "state" : "new",
                      "value" : "%arg items"
                    }
                  }
                }
              }
            }
          }
        },
        "fr" : {
          "stringUnit" : {
            "state" : "translated",
            "value" : "%lld éléments"
          }
        }
      }
    }
  },
  "version" : "1.0"
}`

// pluralOrderCatalog lists plural cases out of key order.
const pluralOrderCatalog = `{
  "sourceLanguage" : "en",
  "strings" : {
    "apples" : {
      "localizations" : {
        "fr" : {
          "variations" : {
            "plural" : {
              "other" : {
                "stringUnit" : {
                  "state" : "translated",
                  "value" : "OTHER"
                }
              },
              "one" : {
                "stringUnit" : {
                  "state" : "translated",
                  "value" : "ONE"
                }
              }
            }
          }
        }
      }
    }
  },
  "version" : "1.0"
}`

// crlfCatalog uses four-space indentation, CRLF line ends and no space
// before colons.
var crlfCatalog = crlf(`{
    "sourceLanguage": "en",
    "strings": {
        "alpha": {
            "localizations": {
                "fr": {
                    "stringUnit": {
                        "state": "translated",
                        "value": "Alpha FR"
                    }
                }
            }
        },
        "beta": {
            "comment": "Second"
        }
    },
    "version": "1.0"
}
`)

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newInlineSession opens text in a session that serializes synchronously.
func newInlineSession(t *testing.T, text string) *Session {
	t.Helper()
	s, err := NewSession(testLogger(), nil, nil, SessionInput{FileName: "Localizable.xcstrings", Content: text})
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }
