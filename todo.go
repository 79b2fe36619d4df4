/*
	Project: PhysDiary - physical education diary for university students
	Target: PE departments (faculties, groups, teachers & students)
*/
package physdiary

/*
TODO: admin: upload CSV to bulk create students via API
TODO: reports: PDF export of student & group reports (entries already carry short names for tables)
TODO: periods: allow archiving a period once every group has moved on

FE:
	- Teacher Dashboard: group reports per period, charts per exercise
	- Student Dashboard: own records, progress chart across periods
*/
