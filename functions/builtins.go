// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package functions

import "strings"

// legacy functions are stored without a prefix.
const legacy = `
ABS ACOS ACOSH ADDRESS AND AREAS ASIN ASINH ATAN ATAN2 ATANH AVEDEV AVERAGE
AVERAGEA AVERAGEIF AVERAGEIFS CEILING CELL CHAR CHOOSE CLEAN CODE COLUMN
COLUMNS CONCATENATE CORREL COS COSH COUNT COUNTA COUNTBLANK COUNTIF COUNTIFS
DATE DATEDIF DATEVALUE DAY DAYS360 DB DDB DEGREES DOLLAR EDATE EOMONTH EVEN
EXACT EXP FACT FALSE FIND FIXED FLOOR FORECAST FV GETPIVOTDATA HLOOKUP HOUR
HYPERLINK IF IFERROR INDEX INDIRECT INFO INT IPMT IRR ISBLANK ISERR ISERROR
ISEVEN ISLOGICAL ISNA ISNONTEXT ISNUMBER ISODD ISREF ISTEXT LARGE LEFT LEN
LN LOG LOG10 LOOKUP LOWER MATCH MAX MAXA MEDIAN MID MIN MINA MINUTE MOD
MODE MONTH N NA NETWORKDAYS NOT NOW NPER NPV ODD OFFSET OR PI PMT POWER PPMT
PRODUCT PROPER PV QUOTIENT RADIANS RAND RANDBETWEEN RANK RATE REPLACE REPT
RIGHT ROUND ROUNDDOWN ROUNDUP ROW ROWS SEARCH SECOND SIGN SIN SINH SMALL SQRT
STDEV STDEVA STDEVP SUBSTITUTE SUBTOTAL SUM SUMIF SUMIFS SUMPRODUCT SUMSQ T
TAN TANH TEXT TIME TIMEVALUE TODAY TRANSPOSE TRIM TRUE TRUNC TYPE UPPER VALUE
VAR VARP VLOOKUP WEEKDAY WEEKNUM WORKDAY YEAR YEARFRAC
`

// future functions are stored with the _xlfn. prefix.
const future = `
AGGREGATE ARRAYTOTEXT BETA.DIST BITAND BITOR BITXOR BYCOL BYROW CEILING.MATH
CHISQ.TEST CHOOSECOLS CHOOSEROWS CONCAT COVARIANCE.P COVARIANCE.S DAYS DROP
EXPAND EXPON.DIST FLOOR.MATH FORECAST.LINEAR GAMMA HSTACK IFNA IFS ISFORMULA
ISOMITTED ISOWEEKNUM LAMBDA LET MAKEARRAY MAP MAXIFS MINIFS MODE.MULT
MODE.SNGL NORM.DIST NORM.INV NORM.S.DIST NUMBERVALUE PERCENTILE.EXC
PERCENTILE.INC QUARTILE.INC RANDARRAY RANK.EQ REDUCE SCAN SEQUENCE SHEET
SINGLE SORTBY STDEV.P STDEV.S SWITCH TAKE TEXTAFTER TEXTBEFORE TEXTJOIN
TEXTSPLIT TOCOL TOROW UNICHAR UNICODE UNIQUE VALUETOTEXT VAR.P VAR.S VSTACK
WRAPCOLS WRAPROWS XLOOKUP XMATCH XOR
`

// worksheet functions are stored with the _xlfn._xlws. prefix.
const worksheet = `
FILTER SORT
`

func builtins() []Function {
	var fns []Function
	for _, group := range []struct {
		names, prefix string
	}{
		{legacy, ""},
		{future, PrefixFuture},
		{worksheet, PrefixWorksheet},
	} {
		for _, name := range strings.Fields(group.names) {
			fns = append(fns, Function{Name: name, Prefix: group.prefix})
		}
	}
	return fns
}
