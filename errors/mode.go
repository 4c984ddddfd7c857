/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package errors

import (
	"fmt"
)

var modeError = ModeDefault

// SetModeReturnError sets the rendering mode used by every Error's Error()
// string from this point on. ffmpego itself never calls this — its errors
// always render as plain messages — but callers embedding liberr in a
// larger CLI may want codes or parent chains surfaced instead.
func SetModeReturnError(mode ErrorMode) {
	modeError = mode
}

func GetModeReturnError() ErrorMode {
	return modeError
}

// ErrorMode selects how Error() renders an error: the bare message, its
// numeric code, or code-plus-message. Unlike the upstream framework this is
// cut down to, this intentionally drops the full-chain and trace-annotated
// variants since nothing in ffmpego ever requests them.
type ErrorMode uint8

const (
	ModeDefault ErrorMode = iota
	ModeReturnCode
	ModeReturnCodeError
	ModeReturnStringError
)

func (m ErrorMode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeReturnCode:
		return "Code"
	case ModeReturnCodeError:
		return "CodeError"
	case ModeReturnStringError:
		return "StringError"
	}

	return ModeDefault.String()
}

func (m ErrorMode) error(e *ers) string {
	switch m {
	case ModeDefault:
		return e.StringError()
	case ModeReturnCode:
		return fmt.Sprintf("%v", e.Code())
	case ModeReturnCodeError:
		return e.CodeError("")
	case ModeReturnStringError:
		return e.StringError()
	}

	return ModeDefault.error(e)
}
