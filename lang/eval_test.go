package lang

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

var testClock = time.Date(2024, time.March, 15, 13, 45, 30, 0, time.UTC)

func testOptions() []Option {
	return []Option{
		WithClock(func() time.Time { return testClock }),
		WithRand(func() float64 { return 0.5 }),
	}
}

type evalCase struct {
	formula string
	want    string
}

func runEvalCases(t *testing.T, cases []evalCase) {
	t.Helper()

	for _, tt := range cases {
		t.Run(tt.formula, func(t *testing.T) {
			v, err := Evaluate(context.Background(), tt.formula, testOptions()...)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.formula, err)
			}

			if got := v.String(); got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.formula, got, tt.want)
			}
		})
	}
}

func TestEvaluate_BasicTypes(t *testing.T) {
	runEvalCases(t, []evalCase{
		{`=TRUE`, "true"},
		{`=TRUE()`, "true"},
		{`=false ( )`, "false"},
		{`=25`, "25"},
		{`=-1.5e2`, "-150"},
		{`=.5`, "0.5"},
		{`='TEST'`, "TEST"},
		{`="say ""hi"""`, `say "hi"`},
		{`='it''s'`, "it's"},
		{`={}`, "[]"},
		{`={'TEST', 1}`, `["TEST",1]`},
		{`={'TEST', 1; 2, TRUE}`, `[["TEST",1],[2,true]]`},
		{`={'TEST', SUM(1,2); 2, TRUE}`, `[["TEST",3],[2,true]]`},
		{`={DATE(2020,1,30), F.DIV(1,0)}`, `["2020-01-30",null]`},
		{"  =\n UPPER( 'x' )\n", "X"},
	})
}

func TestEvaluate_Operators(t *testing.T) {
	runEvalCases(t, []evalCase{
		{`=F.ADD(5,6)`, "11"},
		{`=F.SUB(5,6)`, "-1"},
		{`=F.MUL(5,6)`, "30"},
		{`=F.DIV(10,2)`, "5"},
		{`=F.DIV(10,0)`, "null"},
		{`=F.POW(5,2)`, "25"},
		{`=F.EQ(5,2)`, "false"},
		{`=F.EQ(0.1, 0.10000001)`, "false"},
		{`=F.EQ(0.5, 0.5)`, "true"},
		{`=F.NE(0.1, 0.10000001)`, "false"},
		{`=F.NE(0.1, 0.2)`, "true"},
		{`=F.NE('a','a')`, "false"},
		{`=F.EQ(TRUE, TRUE)`, "true"},
		{`=F.GT('a','a')`, "false"},
		{`=F.GT('b','a')`, "true"},
		{`=F.LT(5,6)`, "true"},
		{`=F.GTE(5,5)`, "true"},
		{`=F.LTE(DATE(2020,1,1), DATE(2020,1,2))`, "true"},
		{`=F.LT(TIME(1,0,0), TIME(2,0,0))`, "true"},
		{`=F.PERCENT(5)`, "0.05"},
		{`=F.NEGATE(5)`, "-5"},
		{`=f.add(1, 2)`, "3"},
		{`=F.ADD(1, F.DIV(1, 0))`, "null"},
	})
}

func TestEvaluate_Math(t *testing.T) {
	runEvalCases(t, []evalCase{
		{`=ABS(-2)`, "2"},
		{`=POWER(2, 10)`, "1024"},
		{`=MOD(3, 2)`, "1"},
		{`=MOD(-3, 2)`, "-1"},
		{`=MOD(3, -2)`, "1"},
		{`=MOD(5.5, 2)`, "1.5"},
		{`=MOD(1, 0)`, "null"},
		{`=SQRT(16)`, "4"},
		{`=SQRT(-1)`, "null"},
		{`=SQRTPI(-1)`, "null"},
		{`=LN(0)`, "null"},
		{`=LOG(-1)`, "null"},
		{`=SIGN(-3)`, "-1"},
		{`=SIGN(0)`, "0"},
		{`=EXP(0)`, "1"},
		{`=COS(0)`, "1"},
		{`=ACOS(2)`, "NaN"},
		{`=SUM(1,2,3)`, "6"},
		{`=SUM({1,2;3,4}, 5)`, "15"},
		{`=PRODUCT(2,3,4)`, "24"},
		{`=SUMSQ(3,4)`, "25"},
		{`=ROUND(2.675, 2)`, "2.68"},
		{`=ROUND(-1.5, 0)`, "-2"},
		{`=ROUND(1234.5678, -2)`, "1200"},
		{`=ROUNDUP(3.2, 0)`, "4"},
		{`=ROUNDDOWN(-3.7, 0)`, "-3"},
		{`=TRUNC(8.9)`, "8"},
		{`=TRUNC(-8.96, 1)`, "-8.9"},
		{`=INT(-8.9)`, "-9"},
		{`=FACT(5)`, "120"},
		{`=FACT(-1)`, "null"},
		{`=GCD(24, 36)`, "12"},
		{`=LCM(4, 6)`, "12"},
		{`=QUOTIENT(-10, 3)`, "-3"},
		{`=QUOTIENT(1, 0)`, "null"},
		{`=EVEN(1.5)`, "2"},
		{`=EVEN(-1)`, "-2"},
		{`=ODD(2)`, "3"},
		{`=ODD(0)`, "1"},
		{`=RAND()`, "0.5"},
		{`=RANDBETWEEN(1, 10)`, "6"},
		{`=RANDBETWEEN(10, 1)`, "null"},
		{`=ATAN2(0, 0)`, "0"},
	})
}

func TestEvaluate_MathApprox(t *testing.T) {
	tests := []struct {
		formula string
		want    float64
	}{
		{`=PI()`, math.Pi},
		{`=LOG(100)`, 2},
		{`=LOG(8, 2)`, 3},
		{`=LOG10(1000)`, 3},
		{`=LN(EXP(2))`, 2},
		{`=SQRTPI(1)`, math.Sqrt(math.Pi)},
		{`=ATAN2(1, 1)`, math.Pi / 4},
		{`=ATAN2(1, 0)`, math.Pi / 2},
		{`=ATAN2(0, 1)`, 0},
		{`=ATAN2(1, 2)`, math.Atan2(1, 2)},
		{`=DEGREES(PI())`, 180},
		{`=RADIANS(180)`, math.Pi},
		{`=SIN(F.DIV(PI(), 2))`, 1},
		{`=TANH(0)`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			v, err := Evaluate(context.Background(), tt.formula)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.formula, err)
			}

			got, ok := v.AsNumber()
			if !ok {
				t.Fatalf("Evaluate(%q) = %s, want a number", tt.formula, v.Kind())
			}

			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.formula, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Logical(t *testing.T) {
	runEvalCases(t, []evalCase{
		{`=AND(TRUE, FALSE)`, "false"},
		{`=AND({TRUE, TRUE})`, "true"},
		{`=OR(TRUE, FALSE)`, "true"},
		{`=XOR(TRUE, TRUE)`, "false"},
		{`=XOR(TRUE, FALSE, FALSE)`, "true"},
		{`=NOT(FALSE)`, "true"},
		{`=IF(TRUE, 1, 2)`, "1"},
		{`=IF(FALSE, 1, 2)`, "2"},
		{`=IF(FALSE, 1)`, "0"},
		{`=IF(TRUE)`, "0"},
		{`=IF(TRUE, 'yes', F.ADD('x', 1))`, "yes"},
		{`=IF(F.DIV(1, 0), 1, 2)`, "null"},
		{`=IFERROR(F.DIV(1,0), 'err')`, "err"},
		{`=IFERROR(F.ADD('a', 1), 'bad')`, "bad"},
		{`=IFERROR(5, 'x')`, "5"},
		{`=IFNA(F.DIV(1,0), 'na')`, "na"},
		{`=IFNA(1, 2)`, "1"},
		{`=IFS(FALSE, 1, TRUE, 2)`, "2"},
		{`=IFS(FALSE, 1)`, "null"},
		{`=SWITCH(2, 1, 'one', 2, 'two')`, "two"},
		{`=SWITCH(3, 1, 'one', 'other')`, "other"},
		{`=SWITCH(3, 1, 'one')`, "null"},
		{`=SWITCH('b', 'a', 1, 'b', 2)`, "2"},
	})
}

func TestEvaluate_Text(t *testing.T) {
	runEvalCases(t, []evalCase{
		{`=LEFT('hello')`, "h"},
		{`=LEFT('hello', 2)`, "he"},
		{`=LEFT('hi', 10)`, "hi"},
		{`=LEFTB('hello')`, "h"},
		{`=RIGHT('hello')`, "o"},
		{`=RIGHT('hello', 2)`, "lo"},
		{`=RIGHT('hi', 5)`, "hi"},
		{`=RIGHTB('hello')`, "o"},
		{`=MID('Fluid Flow', 1, 5)`, "Fluid"},
		{`=MID('Fluid Flow', 7, 20)`, "Flow"},
		{`=MID('Fluid Flow', 20, 5)`, ""},
		{`=MIDB('Fluid Flow', 7, 20)`, "Flow"},
		{`=CODE('A')`, "65"},
		{`=CODE('€')`, "172"},
		{`=CODE('')`, "null"},
		{`=UNICODE('€')`, "8364"},
		{`=CHAR(65)`, "A"},
		{`=CHAR(0)`, "null"},
		{`=UNICHAR(8364)`, "€"},
		{`=CONCAT('hello', ' ', 'world')`, "hello world"},
		{`=CONCATENATE('hello', ' ', 'world')`, "hello world"},
		{`=CONCAT({'a','b'}, 'c')`, "abc"},
		{`=EXACT('hello', 'hello')`, "true"},
		{`=EXACT('hello', 'Hello')`, "false"},
		{`=FIND('a', 'abca')`, "1"},
		{`=FIND('a', 'abca', 2)`, "4"},
		{`=FIND('A', 'abca')`, "null"},
		{`=FIND('a', 'abca', 9)`, "null"},
		{`=FINDB('b', 'abc')`, "2"},
		{`=SEARCH('a', 'ABCA')`, "1"},
		{`=SEARCH('a', 'ABCA', 2)`, "4"},
		{`=SEARCHB('C', 'abc')`, "3"},
		{`=FIXED(123456.673, 2)`, "123,456.67"},
		{`=FIXED(123456.673, -2)`, "123,400"},
		{`=FIXED(123456.673, 0)`, "123,457"},
		{`=FIXED(123456.673, 2, TRUE)`, "123456.67"},
		{`=FIXED(-1234.5, 1)`, "-1,234.5"},
		{`=FIXED(12.5)`, "12.50"},
		{`=FIXED(5, -400)`, "0"},
		{`=FIXED(-5, -400, TRUE)`, "0"},
		{`=LEN('hello')`, "5"},
		{`=LEN('سلام')`, "4"},
		{`=LENB('سلام')`, "8"},
		{`=LOWER('Hello')`, "hello"},
		{`=UPPER('Hello')`, "HELLO"},
		{`=UPPER("hello")`, "HELLO"},
		{`=REPT('H', 5)`, "HHHHH"},
		{`=REPT('H', 0)`, ""},
		{`=REPT('a', 1e10)`, "null"},
		{`=LEFT('abc', 1e10)`, "abc"},
		{`=RIGHT('abc', 1e10)`, "abc"},
		{`=MID('abc', 1e10, 1)`, ""},
		{`=MID('abc', 2, 1e10)`, "bc"},
		{`=REPLACE('abc', 2, 1e10, '-')`, "a-"},
		{`=FIND('a', 'abc', 1e10)`, "null"},
		{`=REPLACE('abcdefghijk', 6, 5, '*')`, "abcde*k"},
		{`=REPLACEB('123456', 1, 3, '@')`, "@456"},
		{`=UPPER(TRIM('   Hello '))`, "HELLO"},
		{`=TRIM('  a   b ')`, "a b"},
		{`=TRIM(CONCAT(' a', CHAR(9), 'b  c '))`, "a\tb c"},
		{`=TRIM(CONCAT(CHAR(10), ' x '))`, "\n x"},
		{`=T('Hello')`, "Hello"},
		{`=T(true)`, ""},
		{`=PROPER('this is a TITLE')`, "This Is A Title"},
		{`=TEXTJOIN('-', TRUE, 'a', '', 'b')`, "a-b"},
		{`=TEXTJOIN('-', FALSE, 'a', '', 'b')`, "a--b"},
		{`=TEXTJOIN(', ', TRUE, {'x', 'y'})`, "x, y"},
		{`=SUBSTITUTE('a-b-c', '-', '+')`, "a+b+c"},
		{`=SUBSTITUTE('a-b-c', '-', '+', 2)`, "a-b+c"},
		{`=SUBSTITUTE('abc', 'x', 'y', 1)`, "abc"},
		{`=VALUE('1,234.5')`, "1234.5"},
		{`=VALUE('50%')`, "0.5"},
		{`=VALUE(7)`, "7"},
		{`=VALUE('abc')`, "null"},
		{`=CLEAN(CONCAT('a', CHAR(9), 'b'))`, "ab"},
		{`=TEXTBEFORE('user@example.com', '@')`, "user"},
		{`=TEXTAFTER('user@example.com', '@')`, "example.com"},
		{`=TEXTAFTER('a.b.c', '.', -1)`, "c"},
		{`=TEXTBEFORE('a.b.c', '.', 2)`, "a.b"},
		{`=TEXTAFTER('abc', 'x')`, "null"},
	})
}

func TestEvaluate_TextBytes(t *testing.T) {
	runEvalCases(t, []evalCase{
		{`=LENB('سلام')`, "8"},
		{`=LENB('éb')`, "3"},
		{`=LEFTB('سلام', 2)`, "س"},
		{`=LEFTB('سلام', 3)`, "س\uFFFD"},
		{`=RIGHTB('سلام', 2)`, "م"},
		{`=RIGHTB('سلام', 3)`, "\uFFFDم"},
		{`=MIDB('سلام', 3, 2)`, "ل"},
		{`=MIDB('سلام', 2, 2)`, "\uFFFD\uFFFD"},
		{`=FINDB('ل', 'سلام')`, "3"},
		{`=FINDB('b', 'éb', 2)`, "3"},
		{`=FINDB('م', 'سلام', 4)`, "7"},
		{`=FIND('b', 'éb', 2)`, "2"},
		{`=SEARCHB('B', 'éb', 2)`, "3"},
		{`=SEARCHB('ل', 'سلام')`, "3"},
		{`=REPLACEB('سلام', 3, 2, '-')`, "س-ام"},
		{`=REPLACEB('سلام', 2, 2, '-')`, "\uFFFD-\uFFFDام"},
	})
}

func TestEvaluate_Datetime(t *testing.T) {
	runEvalCases(t, []evalCase{
		{`=DATE(2020,2,3)`, "2020-02-03"},
		{`=DATE(2020,13,1)`, "2021-01-01"},
		{`=DATE(120,1,1)`, "2020-01-01"},
		{`=DATE(YEAR('1/30/2020'),MONTH('1/30/2020'),DAY('1/30/2020'))`, "2020-01-30"},
		{`=YEAR('1/30/2020')`, "2020"},
		{`=MONTH('1/30/2020')`, "1"},
		{`=DAY('1/30/2020')`, "30"},
		{`=DAY(43860)`, "30"},
		{`=YEAR('2020-01-30')`, "2020"},
		{`=DATEVALUE('1/30/2020')`, "2020-01-30"},
		{`=DATEVALUE('2020-01-30')`, "2020-01-30"},
		{`=DAYS('3/30/2020', '1/30/2020')`, "60"},
		{`=DAYS(10, 5)`, "5"},
		{`=DAYS(DATE(2020,1,6), DATE(2020,1,1))`, "5"},
		{`=EDATE('1/30/2020', 5)`, "2020-06-30"},
		{`=EDATE(DATE(2020,8,25),27)`, "2022-11-25"},
		{`=EDATE(DATE(2020,1,31),1)`, "2020-02-29"},
		{`=EDATE(DATE(2020,3,31),-1)`, "2020-02-29"},
		{`=EOMONTH('1/20/2020', 5)`, "2020-06-30"},
		{`=EOMONTH(DATE(2020,8,31),27)`, "2022-11-30"},
		{`=HOUR('02:30:00')`, "2"},
		{`=MINUTE('02:30:00')`, "30"},
		{`=SECOND('02:30:00')`, "0"},
		{`=HOUR('2:30 PM')`, "14"},
		{`=HOUR(0.5)`, "12"},
		{`=ISOWEEKNUM('1/30/2020')`, "5"},
		{`=TIME(2,30,0)`, "02:30:00"},
		{`=TIME(25,0,0)`, "01:00:00"},
		{`=TIMEVALUE('02:30:00')`, "02:30:00"},
		{`=WEEKDAY(DATE(2020,1,1))`, "4"},
		{`=WEEKDAY(DATE(2020,1,1), 2)`, "3"},
		{`=WEEKDAY(DATE(2020,1,1), 3)`, "2"},
		{`=WEEKDAY(DATE(2020,1,1), 9)`, "null"},
		{`=WEEKNUM(DATE(2020,1,1))`, "1"},
		{`=WEEKNUM(DATE(2020,3,9))`, "11"},
		{`=WEEKNUM(DATE(2020,3,9), 21)`, "11"},
		{`=NOW()`, "2024-03-15 13:45:30 UTC"},
		{`=TODAY()`, "2024-03-15"},
		{`=HOUR(NOW())`, "13"},
		{`=NETWORKDAYS(DATE(2024,1,1), DATE(2024,1,31))`, "23"},
		{`=NETWORKDAYS(DATE(2024,1,1), DATE(2024,1,31), DATE(2024,1,1))`, "22"},
		{`=NETWORKDAYS(DATE(2024,1,1), DATE(2024,1,31), {DATE(2024,1,1), '1/15/2024'})`, "21"},
		{`=NETWORKDAYS(DATE(2024,1,31), DATE(2024,1,1))`, "-23"},
		{`=WORKDAY(DATE(2024,1,5), 1)`, "2024-01-08"},
		{`=WORKDAY(DATE(2024,1,8), -1)`, "2024-01-05"},
		{`=WORKDAY(DATE(2024,1,5), 1, {'1/8/2024'})`, "2024-01-09"},
		{`=DAYS360(DATE(2011,1,30), DATE(2011,12,31))`, "330"},
		{`=DAYS360(DATE(2011,1,30), DATE(2011,12,31), TRUE)`, "330"},
		{`=DATEDIF(DATE(2001,1,1), DATE(2003,1,1), 'Y')`, "2"},
		{`=DATEDIF(DATE(2001,6,1), DATE(2002,8,15), 'D')`, "440"},
		{`=DATEDIF(DATE(2001,6,1), DATE(2002,8,15), 'YD')`, "75"},
		{`=DATEDIF(DATE(2001,6,1), DATE(2002,8,15), 'MD')`, "14"},
		{`=DATEDIF(DATE(2001,6,1), DATE(2002,8,15), 'M')`, "14"},
		{`=DATEDIF(DATE(2001,6,1), DATE(2002,8,15), 'YM')`, "2"},
		{`=DATEDIF(DATE(2002,1,1), DATE(2001,1,1), 'Y')`, "null"},
	})
}

func TestEvaluate_Web(t *testing.T) {
	runEvalCases(t, []evalCase{
		{
			`=ENCODEURL('http://contoso.sharepoint.com/Finance/Profit and Loss Statement.xlsx')`,
			"http%3A%2F%2Fcontoso.sharepoint.com%2FFinance%2FProfit%20and%20Loss%20Statement.xlsx",
		},
		{`=ENCODEURL('a+b~c')`, "a%2Bb~c"},
		{`=WEBSERVICE('ftp://example.com')`, "null"},
	})
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		formula string
		want    error
		rule    string
	}{
		{`=SUM('a')`, ErrParse, "SUM"},
		{`=ABS(TRUE)`, ErrParse, "ABS"},
		{`=F.GT(1, 'a')`, ErrParse, "F.GT"},
		{`=LEFT('abc', -1)`, ErrParse, "LEFT"},
		{`=DATEVALUE('yesterday')`, ErrParse, "DATEVALUE"},
		{`=YEAR('13/45/2020')`, ErrParse, "YEAR"},
		{`=IFS(TRUE)`, ErrParse, "IFS"},
		{`=DATEDIF(DATE(2001,1,1), DATE(2002,1,1), 'Q')`, ErrParse, "DATEDIF"},
		{`=CEILING(1.5)`, ErrNotImplemented, ""},
		{`=LAMBDA()`, ErrNotImplemented, ""},
		{`=IF(TRUE, BAHTTEXT(1), 0)`, ErrNotImplemented, ""},
		{`=FILTERXML('<a/>', '/a')`, ErrNotImplemented, ""},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			_, err := Evaluate(context.Background(), tt.formula)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Evaluate(%q) error = %v, want %v", tt.formula, err, tt.want)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			if _, ok := e.Position(); !ok {
				t.Errorf("error %v has no position", err)
			}

			if tt.rule != "" {
				if got := attrValue(e, "rule"); got != tt.rule {
					t.Errorf("rule = %q, want %q", got, tt.rule)
				}
			}
		})
	}
}

func TestEvaluate_IFERRORCatchesNotImplemented(t *testing.T) {
	v, err := Evaluate(context.Background(), `=IFERROR(CEILING(1.5), 'n/a')`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.String() != "n/a" {
		t.Errorf("got %q, want %q", v.String(), "n/a")
	}
}

func TestEvaluate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Evaluate(ctx, `=IFERROR(SUM(1), 0)`)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestFormula_EvalLazyMemoized(t *testing.T) {
	calls := 0
	opt := WithRand(func() float64 {
		calls++

		return 0.25
	})

	v, err := Evaluate(context.Background(), `=IF(TRUE, RAND(), RAND())`, opt)
	if err != nil {
		t.Fatal(err)
	}

	if v.String() != "0.25" {
		t.Errorf("got %s, want 0.25", v)
	}

	if calls != 1 {
		t.Errorf("RAND evaluated %d times, want 1", calls)
	}
}

func attrValue(e *Error, key string) string {
	for _, a := range e.LogValue().Group() {
		if a.Key == key {
			return a.Value.String()
		}
	}

	return ""
}
